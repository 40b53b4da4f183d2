package service

import (
	"context"
	"net/http"
	"testing"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	sender := &fakeSender{reply: map[string]any{"message": "ok", "text": "no"}}
	s := newTestChatService(sender, testCreds, true)

	resp, err := s.Chat(context.Background(), models.ChatRequest{Message: "oi", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Response)
	assert.True(t, resp.Success)
	assert.Equal(t, "2024-05-10T13:45:30.250Z", resp.Timestamp)

	require.Len(t, sender.payloads, 1)
	p := sender.payloads[0]
	assert.Equal(t, "oi", p.Message)
	assert.Equal(t, "apostila_ai_u1", p.SessionID)
	assert.Equal(t, map[string]any{
		"app":       "apostila_ai",
		"userType":  "student",
		"timestamp": "2024-05-10T13:45:30.250Z",
	}, p.Context)
}

func TestChatMissingFields(t *testing.T) {
	sender := &fakeSender{}
	s := newTestChatService(sender, testCreds, true)

	for _, req := range []models.ChatRequest{{UserID: "u1"}, {Message: "oi"}} {
		_, err := s.Chat(context.Background(), req)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, MsgChatFieldsRequired, appErr.Message)
	}
	assert.Empty(t, sender.payloads)
}

func TestChatNotConfigured(t *testing.T) {
	sender := &fakeSender{}
	s := newTestChatService(sender, chatvolt.StaticResolver{APIKey: "key"}, true)

	_, err := s.Chat(context.Background(), models.ChatRequest{Message: "oi", UserID: "u1"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, MsgConfigMissing, appErr.Message)
	assert.Empty(t, sender.payloads)
}

func TestChatUpstreamError(t *testing.T) {
	sender := &fakeSender{err: &chatvolt.UpstreamError{StatusCode: 503, Body: "maintenance"}}
	s := newTestChatService(sender, testCreds, true)

	_, err := s.Chat(context.Background(), models.ChatRequest{Message: "oi", UserID: "u1"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, MsgUpstreamFailure, appErr.Message)
	assert.Equal(t, "Status: 503", appErr.Details)
	assert.Equal(t, "maintenance", appErr.Upstream)
}

func TestChatNetworkErrorIsInternal(t *testing.T) {
	sender := &fakeSender{err: errNetwork}
	s := newTestChatService(sender, testCreds, true)

	_, err := s.Chat(context.Background(), models.ChatRequest{Message: "oi", UserID: "u1"})
	_, isApp := apperrors.As(err)
	assert.False(t, isApp)

	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.InternalMessage, appErr.Message)
	assert.Contains(t, appErr.Details, "connection refused")
}

func TestProxy(t *testing.T) {
	raw := map[string]any{"response": "resumo", "conversationId": "c9"}
	sender := &fakeSender{reply: raw}
	s := newTestChatService(sender, testCreds, true)

	resp, err := s.Proxy(context.Background(), models.ProxyRequest{
		Message:      "explique",
		UserID:       "u1",
		Type:         "apostilas",
		SystemPrompt: "Seja breve",
		Context:      map[string]any{"userLevel": "Ensino Médio", "app": "override"},
	})
	require.NoError(t, err)

	assert.Equal(t, "resumo", resp.Response)
	assert.Equal(t, "apostilas", resp.Metadata.Type)
	assert.Equal(t, "u1", resp.Metadata.UserID)
	assert.Equal(t, raw, resp.Metadata.ChatvoltData)

	require.Len(t, sender.payloads, 1)
	p := sender.payloads[0]
	assert.Equal(t, "Seja breve\n\nUsuário: explique", p.Message)
	assert.Equal(t, "apostila_ai_apostilas_u1_1715348730250", p.SessionID)
	assert.Nil(t, p.Context)
	assert.Equal(t, map[string]any{
		"app":       "override",
		"feature":   "apostilas",
		"timestamp": "2024-05-10T13:45:30.250Z",
		"userLevel": "Ensino Médio",
	}, p.Metadata)
}

func TestProxyHidesRawReply(t *testing.T) {
	sender := &fakeSender{reply: map[string]any{"answer": "a"}}
	s := newTestChatService(sender, testCreds, false)

	resp, err := s.Proxy(context.Background(), models.ProxyRequest{Message: "m", UserID: "u", Type: "chat"})
	require.NoError(t, err)
	assert.Nil(t, resp.Metadata.ChatvoltData)
	assert.Equal(t, "m", sender.payloads[0].Message)
}

func TestProxyChecksConfigBeforeMessage(t *testing.T) {
	s := newTestChatService(&fakeSender{}, chatvolt.StaticResolver{}, true)

	_, err := s.Proxy(context.Background(), models.ProxyRequest{})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConfiguration, appErr.Code)
}

func TestProxyMissingMessageIsInternal(t *testing.T) {
	sender := &fakeSender{}
	s := newTestChatService(sender, testCreds, true)

	_, err := s.Proxy(context.Background(), models.ProxyRequest{UserID: "u"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatusCode(err))
	assert.Empty(t, sender.payloads)
}

func TestProxyUpstreamError(t *testing.T) {
	sender := &fakeSender{err: &chatvolt.UpstreamError{StatusCode: 401, Body: `{"error":"bad key"}`}}
	s := newTestChatService(sender, testCreds, true)

	_, err := s.Proxy(context.Background(), models.ProxyRequest{Message: "m", Type: "chat"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Status: 401", appErr.Details)
	assert.Equal(t, `{"error":"bad key"}`, appErr.Upstream)
}
