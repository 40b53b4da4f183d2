package service

import (
	"context"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"
)

// MsgTutorMessageRequired is returned when the study page sends no question
const MsgTutorMessageRequired = "message is required"

// TutorService answers a logged-in student's question and keeps the conversation log
type TutorService struct {
	chat    *ChatService
	history *ConversationLogger
}

// NewTutorService creates a tutor service
func NewTutorService(chat *ChatService, history *ConversationLogger) *TutorService {
	return &TutorService{chat: chat, history: history}
}

// Ask logs the question, proxies it with the feature's preset prompt and
// logs the answer. Logging never changes the reply.
func (s *TutorService) Ask(ctx context.Context, identity models.Identity, req models.TutorRequest) (*models.ProxyResponse, error) {
	if req.Message == "" {
		return nil, apperrors.NewClientInputError(MsgTutorMessageRequired)
	}

	feature := req.Type
	if feature == "" {
		feature = DefaultFeature
	}

	proxyContext := map[string]any{"userLevel": identity.Class}
	for k, v := range req.Context {
		proxyContext[k] = v
	}

	proxyReq := models.ProxyRequest{
		Message: req.Message,
		UserID:  identity.Email,
		Type:    feature,
		Context: proxyContext,
	}
	if preset, ok := chatvolt.PresetFor(feature); ok {
		proxyReq.SystemPrompt = preset.SystemPrompt
	}

	s.history.LogQuestion(ctx, identity, req.Message)

	resp, err := s.chat.Proxy(ctx, proxyReq)
	if err != nil {
		return nil, err
	}

	s.history.AttachAnswer(ctx, identity, req.Message, resp.Response)
	return resp, nil
}
