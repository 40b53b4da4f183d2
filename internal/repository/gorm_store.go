package repository

import (
	"context"

	"apostila-ai/backend/internal/models"
	"apostila-ai/backend/pkg/logger"

	"gorm.io/gorm"
)

// GormQuestionStore writes the conversation log straight to Postgres
type GormQuestionStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormQuestionStore creates a store over an open connection
func NewGormQuestionStore(db *gorm.DB, log *logger.Logger) *GormQuestionStore {
	return &GormQuestionStore{db: db, log: log}
}

// Migrate creates the log table if it does not exist yet
func (s *GormQuestionStore) Migrate() error {
	return s.db.AutoMigrate(&models.QuestionLog{})
}

// Insert implements QuestionStore
func (s *GormQuestionStore) Insert(ctx context.Context, row *models.QuestionLog) error {
	return s.db.WithContext(ctx).Create(row).Error
}

// UpdateAnswer implements QuestionStore
func (s *GormQuestionStore) UpdateAnswer(ctx context.Context, question, student, answer string) error {
	result := s.db.WithContext(ctx).
		Model(&models.QuestionLog{}).
		Where("pergunta = ? AND aluno = ?", question, student).
		Update("resposta_ia", answer)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		s.log.Warn("no conversation log row matched the answer", "student", student)
	}
	return nil
}
