package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"
	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/shared/observability"
)

// Client-facing messages of the exercise route
const (
	MsgExerciseFieldsRequired = "topic and difficulty are required"
	MsgExerciseFailure        = "Error generating exercises"
)

// AnonymousUser stands in for a missing user id
const AnonymousUser = "anonymous"

// ExerciseResult is the body returned to the caller.
// Body is either the provider's own JSON object or a synthetic fallback set.
type ExerciseResult struct {
	Body     json.RawMessage
	Fallback bool
}

// ExerciseService asks the provider for multiple-choice exercises
type ExerciseService struct {
	resolver chatvolt.Resolver
	sender   Sender
	metrics  *observability.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewExerciseService creates an exercise service
func NewExerciseService(
	resolver chatvolt.Resolver,
	sender Sender,
	metrics *observability.Metrics,
	log *logger.Logger,
) *ExerciseService {
	return &ExerciseService{
		resolver: resolver,
		sender:   sender,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// Generate requests five exercises on a topic. Provider failures are reported
// without status or body; unparseable replies fall back to one placeholder exercise.
func (s *ExerciseService) Generate(ctx context.Context, req models.ExerciseRequest) (*ExerciseResult, error) {
	if req.Topic == "" || req.Difficulty == "" {
		return nil, apperrors.NewClientInputError(MsgExerciseFieldsRequired)
	}

	creds, err := resolveCredentials(ctx, s.resolver, s.metrics, RouteExercises)
	if err != nil {
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, ExerciseGenerationError(err)
	}

	userID := req.UserID
	if userID == "" {
		userID = AnonymousUser
	}

	payload := chatvolt.Payload{
		Message:   ExercisePrompt(req.Topic, req.Difficulty),
		UserID:    userID,
		SessionID: chatvolt.ExerciseSessionID(s.now()),
		Context: map[string]any{
			"app":        chatvolt.AppName,
			"feature":    "exercise_generator",
			"topic":      req.Topic,
			"difficulty": req.Difficulty,
		},
	}

	reply, err := s.sender.Send(ctx, creds, payload)
	if err != nil {
		outcome := observability.OutcomeFailure
		var upstreamErr *chatvolt.UpstreamError
		if errors.As(err, &upstreamErr) {
			outcome = observability.OutcomeUpstreamError
		}
		s.metrics.UpstreamRequest(ctx, RouteExercises, outcome)
		s.log.LogError(err, "exercise generation failed", "topic", req.Topic)
		return nil, ExerciseGenerationError(err)
	}
	s.metrics.UpstreamRequest(ctx, RouteExercises, observability.OutcomeSuccess)

	text := reply.Text()
	if body, ok := ExtractExercises(text); ok {
		s.checkSchema(ctx, body)
		return &ExerciseResult{Body: body}, nil
	}

	s.log.Info("reply held no exercise JSON, using fallback", "topic", req.Topic)
	s.metrics.ExerciseFallback(ctx)

	body, err := json.Marshal(FallbackExercises(req.Topic, text))
	if err != nil {
		return nil, ExerciseGenerationError(fmt.Errorf("marshal fallback exercises: %w", err))
	}
	return &ExerciseResult{Body: body, Fallback: true}, nil
}

// checkSchema only reports; the parsed object is returned as received either way
func (s *ExerciseService) checkSchema(ctx context.Context, body json.RawMessage) {
	violations, err := ValidateExerciseSet(body)
	if err != nil {
		s.log.Warn("exercise schema check failed", "error", err)
		return
	}
	if len(violations) > 0 {
		s.metrics.SchemaMismatch(ctx)
		s.log.Warn("exercise payload does not match the expected shape", "violations", violations)
	}
}

// ExerciseGenerationError is the only failure the exercise route reports; the cause is kept for logging
func ExerciseGenerationError(cause error) error {
	return apperrors.NewInternalServerError(apperrors.CodeExerciseGeneration, MsgExerciseFailure).
		WithCause(cause)
}
