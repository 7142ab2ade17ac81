package observability

import (
	"context"

	"github.com/felixgeelhaar/signal/domain/telemetry"
)

// NoopTracer is a tracer that does nothing.
type NoopTracer struct{}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// StartSpan implements telemetry.Tracer.
func (t *NoopTracer) StartSpan(ctx context.Context, _ string, _ ...telemetry.SpanOption) (context.Context, telemetry.Span) {
	return ctx, &noopSpan{}
}

var _ telemetry.Tracer = (*NoopTracer)(nil)

// noopSpan is a span that does nothing.
type noopSpan struct{}

func (s *noopSpan) End(_ ...telemetry.EndOption)               {}
func (s *noopSpan) SetAttributes(_ ...telemetry.Attribute)     {}
func (s *noopSpan) RecordError(_ error)                        {}
func (s *noopSpan) SetStatus(_ telemetry.StatusCode, _ string) {}

var _ telemetry.Span = (*noopSpan)(nil)
