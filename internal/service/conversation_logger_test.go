package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = models.Identity{Name: "João Silva", Email: "joao@email.com", Class: "Ensino Médio"}

func newTestConversationLogger(store *fakeStore) *ConversationLogger {
	l := NewConversationLogger(store, nil, logger.Discard())
	l.now = func() time.Time { return fixedNow }
	return l
}

func TestConversationLogger(t *testing.T) {
	store := &fakeStore{}
	l := newTestConversationLogger(store)

	l.LogQuestion(context.Background(), student, "O que é fotossíntese?")
	l.AttachAnswer(context.Background(), student, "O que é fotossíntese?", "É um processo...")

	require.Len(t, store.inserted, 1)
	row := store.inserted[0]
	assert.Equal(t, "João Silva", row.Aluno)
	assert.Equal(t, "joao@email.com", row.Email)
	assert.Equal(t, "Ensino Médio", row.Turma)
	assert.Equal(t, "O que é fotossíntese?", row.Pergunta)
	assert.Nil(t, row.RespostaIA)
	assert.Equal(t, fixedNow, row.Timestamp)

	assert.Equal(t, [][3]string{{"O que é fotossíntese?", "João Silva", "É um processo..."}}, store.updates)
}

func TestConversationLoggerSwallowsErrors(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("insert failed"), updateErr: errors.New("update failed")}
	l := newTestConversationLogger(store)

	assert.NotPanics(t, func() {
		l.LogQuestion(context.Background(), student, "q")
		l.AttachAnswer(context.Background(), student, "q", "a")
	})
	assert.Len(t, store.inserted, 1)
	assert.Len(t, store.updates, 1)
}

func TestTutorAsk(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("store offline")}
	sender := &fakeSender{reply: map[string]any{"response": "Fotossíntese é..."}}
	tutor := NewTutorService(newTestChatService(sender, testCreds, false), newTestConversationLogger(store))

	resp, err := tutor.Ask(context.Background(), student, models.TutorRequest{Message: "O que é fotossíntese?"})
	require.NoError(t, err)
	assert.Equal(t, "Fotossíntese é...", resp.Response)
	assert.Equal(t, "chat", resp.Metadata.Type)
	assert.Equal(t, "joao@email.com", resp.Metadata.UserID)

	require.Len(t, sender.payloads, 1)
	p := sender.payloads[0]
	preset, _ := chatvolt.PresetFor("chat")
	assert.Equal(t, preset.SystemPrompt+"\n\nUsuário: O que é fotossíntese?", p.Message)
	assert.Equal(t, "Ensino Médio", p.Metadata["userLevel"])

	assert.Equal(t, [][3]string{{"O que é fotossíntese?", "João Silva", "Fotossíntese é..."}}, store.updates)
}

func TestTutorAskFailureSkipsAnswer(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{err: &chatvolt.UpstreamError{StatusCode: 500, Body: "x"}}
	tutor := NewTutorService(newTestChatService(sender, testCreds, false), newTestConversationLogger(store))

	_, err := tutor.Ask(context.Background(), student, models.TutorRequest{Message: "q", Type: "apostilas"})
	require.Error(t, err)
	assert.Len(t, store.inserted, 1)
	assert.Empty(t, store.updates)
}

func TestTutorAskRequiresMessage(t *testing.T) {
	store := &fakeStore{}
	tutor := NewTutorService(newTestChatService(&fakeSender{}, testCreds, false), newTestConversationLogger(store))

	_, err := tutor.Ask(context.Background(), student, models.TutorRequest{})
	assert.Equal(t, 400, apperrors.GetStatusCode(err))
	assert.Empty(t, store.inserted)
}
