package service

import (
	"context"
	"time"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/internal/repository"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/shared/observability"
)

// ConversationLogger records questions and answers on a best-effort basis.
// Store failures are logged and counted, never returned.
type ConversationLogger struct {
	store   repository.QuestionStore
	metrics *observability.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewConversationLogger creates a logger over the given store
func NewConversationLogger(store repository.QuestionStore, metrics *observability.Metrics, log *logger.Logger) *ConversationLogger {
	if store == nil {
		store = repository.NopQuestionStore{}
	}
	return &ConversationLogger{
		store:   store,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// LogQuestion inserts an unanswered row for the student
func (l *ConversationLogger) LogQuestion(ctx context.Context, identity models.Identity, question string) {
	row := models.NewQuestionLog(identity, question, l.now())
	if err := l.store.Insert(ctx, row); err != nil {
		l.metrics.LogFailure(ctx, "insert")
		l.log.LogError(err, "failed to log question", "student", identity.Name)
	}
}

// AttachAnswer stores the answer on every row matching the question text and
// student name. Two identical questions from the same student both get it.
func (l *ConversationLogger) AttachAnswer(ctx context.Context, identity models.Identity, question, answer string) {
	if err := l.store.UpdateAnswer(ctx, question, identity.Name, answer); err != nil {
		l.metrics.LogFailure(ctx, "update")
		l.log.LogError(err, "failed to log answer", "student", identity.Name)
	}
}
