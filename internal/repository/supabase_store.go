package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apostila-ai/backend/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SupabaseConfig addresses the hosted PostgREST endpoint
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Table   string
	Timeout time.Duration
}

// SupabaseQuestionStore writes the conversation log through the hosted REST API
type SupabaseQuestionStore struct {
	cfg        SupabaseConfig
	httpClient *http.Client
}

// NewSupabaseQuestionStore creates a REST-backed store
func NewSupabaseQuestionStore(cfg SupabaseConfig) *SupabaseQuestionStore {
	if cfg.Table == "" {
		cfg.Table = models.QuestionLog{}.TableName()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SupabaseQuestionStore{
		cfg:        cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Insert implements QuestionStore
func (s *SupabaseQuestionStore) Insert(ctx context.Context, row *models.QuestionLog) error {
	return s.do(ctx, http.MethodPost, s.tableURL(nil), []*models.QuestionLog{row})
}

// UpdateAnswer implements QuestionStore
func (s *SupabaseQuestionStore) UpdateAnswer(ctx context.Context, question, student, answer string) error {
	filter := url.Values{}
	filter.Set("pergunta", "eq."+question)
	filter.Set("aluno", "eq."+student)

	return s.do(ctx, http.MethodPatch, s.tableURL(filter), map[string]string{"resposta_ia": answer})
}

func (s *SupabaseQuestionStore) tableURL(filter url.Values) string {
	u := strings.TrimRight(s.cfg.URL, "/") + "/rest/v1/" + s.cfg.Table
	if len(filter) > 0 {
		u += "?" + filter.Encode()
	}
	return u
}

func (s *SupabaseQuestionStore) do(ctx context.Context, method, target string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", s.cfg.Table, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create %s request: %w", s.cfg.Table, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+s.cfg.AnonKey)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, s.cfg.Table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, s.cfg.Table, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
