package chatvolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"apostila-ai/backend/pkg/logger"
	"apostila-ai/backend/pkg/resilience"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ClientConfig tunes the transport to the provider
type ClientConfig struct {
	// Timeout bounds one exchange; zero means no client-side limit
	Timeout time.Duration
	// Breaker, when set, short-circuits calls after repeated failures
	Breaker *resilience.CircuitBreaker
}

// Client posts prompts to the Chatvolt provider
type Client struct {
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a provider client
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
			),
		},
		breaker:    cfg.Breaker,
		log:        log,
	}
}

// Send posts payload to {BaseURL}/api/chat. A non-2xx answer is returned as
// *UpstreamError; nothing is retried.
func (c *Client) Send(ctx context.Context, creds Credentials, payload Payload) (*Reply, error) {
	if c.breaker == nil {
		return c.send(ctx, creds, payload)
	}

	var reply *Reply
	err := c.breaker.Execute(func() error {
		var sendErr error
		reply, sendErr = c.send(ctx, creds, payload)
		return sendErr
	})
	return reply, err
}

func (c *Client) send(ctx context.Context, creds Credentials, payload Payload) (*Reply, error) {
	ctx, span := otel.Tracer("apostila-ai/chatvolt").Start(ctx, "chatvolt.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("chatvolt.session_id", payload.SessionID),
		attribute.Int("chatvolt.message_length", len(payload.Message)),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chatvolt payload: %w", err)
	}

	url := strings.TrimRight(creds.BaseURL, "/") + Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chatvolt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	// The provider accepts either header depending on the deployment, so both are sent
	req.Header.Set("X-API-Key", creds.APIKey)
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("chatvolt request failed: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.LogUpstream(Endpoint, resp.StatusCode, time.Since(start),
		"user_id", payload.UserID,
		"session_id", payload.SessionID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		upstreamErr := &UpstreamError{StatusCode: resp.StatusCode, Body: string(text)}
		c.log.Error("chatvolt returned an error", "status", resp.StatusCode, "body", upstreamErr.Body)
		span.SetStatus(codes.Error, upstreamErr.Error())
		return nil, upstreamErr
	}

	var decoded any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		return nil, fmt.Errorf("decode chatvolt response: %w", err)
	}
	if decoded == nil {
		return nil, fmt.Errorf("decode chatvolt response: empty body")
	}

	// Anything but an object carries no reply fields
	data, ok := decoded.(map[string]any)
	if !ok {
		data = map[string]any{}
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	c.log.Debug("chatvolt reply received", "keys", keys)

	return &Reply{StatusCode: resp.StatusCode, Data: data}, nil
}
