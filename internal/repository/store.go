package repository

import (
	"context"

	"apostila-ai/backend/internal/models"
)

// Conversation log backends
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// QuestionStore persists the conversation log
type QuestionStore interface {
	// Insert adds an unanswered row
	Insert(ctx context.Context, row *models.QuestionLog) error
	// UpdateAnswer sets the answer on every row with this question and student name
	UpdateAnswer(ctx context.Context, question, student, answer string) error
}

// NopQuestionStore discards every write
type NopQuestionStore struct{}

// Insert implements QuestionStore
func (NopQuestionStore) Insert(context.Context, *models.QuestionLog) error { return nil }

// UpdateAnswer implements QuestionStore
func (NopQuestionStore) UpdateAnswer(context.Context, string, string, string) error { return nil }
