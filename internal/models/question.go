package models

import "time"

// Identity names the student a conversation is logged for
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Class string `json:"class"`
}

// QuestionLog is one row of the conversation log
type QuestionLog struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Aluno      string    `gorm:"column:aluno;index:idx_pergunta_aluno,priority:2" json:"aluno"`
	Email      string    `gorm:"column:email" json:"email"`
	Turma      string    `gorm:"column:turma" json:"turma"`
	Pergunta   string    `gorm:"column:pergunta;type:text;index:idx_pergunta_aluno,priority:1" json:"pergunta"`
	RespostaIA *string   `gorm:"column:resposta_ia;type:text" json:"resposta_ia,omitempty"`
	Timestamp  time.Time `gorm:"column:timestamp" json:"timestamp"`
}

// TableName keeps the table name used by the hosted store
func (QuestionLog) TableName() string {
	return "perguntas"
}

// NewQuestionLog builds an unanswered row for identity
func NewQuestionLog(identity Identity, question string, at time.Time) *QuestionLog {
	return &QuestionLog{
		Aluno:     identity.Name,
		Email:     identity.Email,
		Turma:     identity.Class,
		Pergunta:  question,
		Timestamp: at.UTC(),
	}
}
