package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/shared/observability"
)

// Route labels used in logs and metrics
const (
	RouteChat      = "chat"
	RouteProxy     = "chatvolt-proxy"
	RouteExercises = "exercises"
	RouteTutor     = "tutor"
)

// Client-facing messages
const (
	MsgChatFieldsRequired = "message and userId are required"
	MsgConfigMissing      = "AI configuration not found"
	MsgUpstreamFailure    = "Error communicating with the AI"
)

// DefaultFeature is used when a proxied request names no feature type
const DefaultFeature = "chat"

// Sender posts one payload to the provider
type Sender interface {
	Send(ctx context.Context, creds chatvolt.Credentials, payload chatvolt.Payload) (*chatvolt.Reply, error)
}

// ChatServiceConfig holds the chat knobs
type ChatServiceConfig struct {
	// ExposeRawReply echoes the provider object back in the proxy metadata
	ExposeRawReply bool
}

// ChatService relays student messages to the provider
type ChatService struct {
	resolver chatvolt.Resolver
	sender   Sender
	metrics  *observability.Metrics
	config   ChatServiceConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewChatService creates a chat service
func NewChatService(
	resolver chatvolt.Resolver,
	sender Sender,
	metrics *observability.Metrics,
	config ChatServiceConfig,
	log *logger.Logger,
) *ChatService {
	return &ChatService{
		resolver: resolver,
		sender:   sender,
		metrics:  metrics,
		config:   config,
		log:      log,
		now:      time.Now,
	}
}

// Chat forwards one message with the default student context
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.Message == "" || req.UserID == "" {
		return nil, apperrors.NewClientInputError(MsgChatFieldsRequired)
	}

	creds, err := resolveCredentials(ctx, s.resolver, s.metrics, RouteChat)
	if err != nil {
		return nil, err
	}

	payload := chatvolt.Payload{
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: chatvolt.ChatSessionID(req.UserID),
		Context: map[string]any{
			"app":       chatvolt.AppName,
			"userType":  "student",
			"timestamp": chatvolt.Timestamp(s.now()),
		},
	}

	reply, err := s.sender.Send(ctx, creds, payload)
	if err != nil {
		return nil, s.upstreamFailure(ctx, RouteChat, err)
	}
	s.metrics.UpstreamRequest(ctx, RouteChat, observability.OutcomeSuccess)

	return &models.ChatResponse{
		Response:  reply.Text(),
		Success:   true,
		Timestamp: chatvolt.Timestamp(s.now()),
	}, nil
}

// Proxy forwards one message for a named feature, optionally behind a system prompt.
// Caller context keys are merged into the metadata last and may override the defaults.
func (s *ChatService) Proxy(ctx context.Context, req models.ProxyRequest) (*models.ProxyResponse, error) {
	creds, err := resolveCredentials(ctx, s.resolver, s.metrics, RouteProxy)
	if err != nil {
		return nil, err
	}

	if req.Message == "" {
		return nil, errors.New("message is required")
	}

	feature := req.Type
	if feature == "" {
		feature = DefaultFeature
	}

	now := s.now()
	metadata := map[string]any{
		"app":       chatvolt.AppName,
		"feature":   feature,
		"timestamp": chatvolt.Timestamp(now),
	}
	for k, v := range req.Context {
		metadata[k] = v
	}

	payload := chatvolt.Payload{
		Message:   chatvolt.ComposeMessage(req.SystemPrompt, req.Message),
		UserID:    req.UserID,
		SessionID: chatvolt.FeatureSessionID(feature, req.UserID, now),
		Metadata:  metadata,
	}

	reply, err := s.sender.Send(ctx, creds, payload)
	if err != nil {
		return nil, s.upstreamFailure(ctx, RouteProxy, err)
	}
	s.metrics.UpstreamRequest(ctx, RouteProxy, observability.OutcomeSuccess)

	resp := &models.ProxyResponse{
		Response:  reply.Text(),
		Success:   true,
		Timestamp: chatvolt.Timestamp(s.now()),
		Metadata: models.ProxyMetadata{
			Type:   feature,
			UserID: req.UserID,
		},
	}
	if s.config.ExposeRawReply {
		resp.Metadata.ChatvoltData = reply.Data
	}
	return resp, nil
}

// upstreamFailure maps a failed provider call to the error returned to the caller
func (s *ChatService) upstreamFailure(ctx context.Context, route string, err error) error {
	var upstreamErr *chatvolt.UpstreamError
	if errors.As(err, &upstreamErr) {
		s.metrics.UpstreamRequest(ctx, route, observability.OutcomeUpstreamError)
		return apperrors.NewUpstreamError(MsgUpstreamFailure, upstreamErr.StatusCode, upstreamErr.Body).
			WithCause(err)
	}

	s.metrics.UpstreamRequest(ctx, route, observability.OutcomeFailure)
	s.log.LogError(err, "chatvolt call failed", "route", route)
	return err
}

func resolveCredentials(
	ctx context.Context,
	resolver chatvolt.Resolver,
	metrics *observability.Metrics,
	route string,
) (chatvolt.Credentials, error) {
	creds, err := resolver.Resolve(ctx)
	if err == nil {
		return creds, nil
	}

	if errors.Is(err, chatvolt.ErrNotConfigured) {
		metrics.UpstreamRequest(ctx, route, observability.OutcomeNotConfigured)
		return chatvolt.Credentials{}, apperrors.NewConfigurationError(MsgConfigMissing).WithCause(err)
	}
	return chatvolt.Credentials{}, fmt.Errorf("resolve chatvolt credentials: %w", err)
}
