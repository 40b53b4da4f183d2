package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apostila-ai/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseInsert(t *testing.T) {
	var body []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/perguntas", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store := NewSupabaseQuestionStore(SupabaseConfig{URL: server.URL, AnonKey: "anon"})
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	row := models.NewQuestionLog(models.Identity{Name: "Ana", Email: "ana@x.com", Class: "9º ano"}, "Quanto é 2+2?", at)

	require.NoError(t, store.Insert(context.Background(), row))
	require.Len(t, body, 1)
	assert.Equal(t, "Ana", body[0]["aluno"])
	assert.Equal(t, "ana@x.com", body[0]["email"])
	assert.Equal(t, "9º ano", body[0]["turma"])
	assert.Equal(t, "Quanto é 2+2?", body[0]["pergunta"])
	assert.Equal(t, "2024-05-10T12:00:00Z", body[0]["timestamp"])
	assert.NotContains(t, body[0], "resposta_ia")
	assert.NotContains(t, body[0], "id")
}

func TestSupabaseUpdateAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.Quanto é 2+2?", r.URL.Query().Get("pergunta"))
		assert.Equal(t, "eq.Ana", r.URL.Query().Get("aluno"))

		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"resposta_ia":"4"}`, string(data))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store := NewSupabaseQuestionStore(SupabaseConfig{URL: server.URL + "/", AnonKey: "anon", Table: "perguntas"})
	require.NoError(t, store.UpdateAnswer(context.Background(), "Quanto é 2+2?", "Ana", "4"))
}

func TestSupabaseErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer server.Close()

	store := NewSupabaseQuestionStore(SupabaseConfig{URL: server.URL, AnonKey: "bad"})
	err := store.Insert(context.Background(), &models.QuestionLog{Pergunta: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestNopQuestionStore(t *testing.T) {
	var store QuestionStore = NopQuestionStore{}
	assert.NoError(t, store.Insert(context.Background(), &models.QuestionLog{}))
	assert.NoError(t, store.UpdateAnswer(context.Background(), "q", "s", "a"))
}
