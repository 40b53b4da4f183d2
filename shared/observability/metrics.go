package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded for upstream calls
const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeFailure       = "failure"
	OutcomeNotConfigured = "not_configured"
)

// Metrics groups the service counters. A nil *Metrics records nothing.
type Metrics struct {
	upstreamRequests metric.Int64Counter
	fallbacks        metric.Int64Counter
	schemaMismatches metric.Int64Counter
	logFailures      metric.Int64Counter
}

// NewMetrics registers the counters on the given meter provider
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("apostila-ai")

	upstream, err := meter.Int64Counter("chatvolt_requests_total",
		metric.WithDescription("Calls forwarded to the Chatvolt provider"))
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter("exercise_fallbacks_total",
		metric.WithDescription("Exercise replies replaced by the synthetic placeholder"))
	if err != nil {
		return nil, err
	}

	mismatches, err := meter.Int64Counter("exercise_schema_mismatches_total",
		metric.WithDescription("Parsed exercise payloads that did not match the expected schema"))
	if err != nil {
		return nil, err
	}

	logFailures, err := meter.Int64Counter("conversation_log_failures_total",
		metric.WithDescription("Conversation log writes that failed and were dropped"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		upstreamRequests: upstream,
		fallbacks:        fallbacks,
		schemaMismatches: mismatches,
		logFailures:      logFailures,
	}, nil
}

// UpstreamRequest counts one provider call for a route
func (m *Metrics) UpstreamRequest(ctx context.Context, route, outcome string) {
	if m == nil {
		return
	}
	m.upstreamRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("outcome", outcome),
	))
}

// ExerciseFallback counts one synthetic exercise reply
func (m *Metrics) ExerciseFallback(ctx context.Context) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1)
}

// SchemaMismatch counts one parsed exercise payload that failed schema checks
func (m *Metrics) SchemaMismatch(ctx context.Context) {
	if m == nil {
		return
	}
	m.schemaMismatches.Add(ctx, 1)
}

// LogFailure counts one dropped conversation log write
func (m *Metrics) LogFailure(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.logFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
