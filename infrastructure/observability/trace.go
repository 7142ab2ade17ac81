package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/signal/domain/telemetry"
)

// OTelTracer wraps an OpenTelemetry tracer.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a new OpenTelemetry tracer.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{
		tracer: otel.Tracer(name),
	}
}

// StartSpan implements telemetry.Tracer. A WithStartTime option becomes an
// explicit span start timestamp, so retroactive spans report their recorded
// timing rather than the time of emission.
func (t *OTelTracer) StartSpan(ctx context.Context, name string, opts ...telemetry.SpanOption) (context.Context, telemetry.Span) {
	cfg := &telemetry.SpanConfig{}
	for _, opt := range opts {
		opt.ApplySpan(cfg)
	}

	otelOpts := make([]trace.SpanStartOption, 0, 3)
	if len(cfg.Attributes) > 0 {
		otelOpts = append(otelOpts, trace.WithAttributes(convertAttributes(cfg.Attributes)...))
	}
	if cfg.Kind != telemetry.SpanKindUnspecified {
		otelOpts = append(otelOpts, trace.WithSpanKind(convertSpanKind(cfg.Kind)))
	}
	if !cfg.StartTime.IsZero() {
		otelOpts = append(otelOpts, trace.WithTimestamp(cfg.StartTime))
	}

	ctx, span := t.tracer.Start(ctx, name, otelOpts...)
	return ctx, &otelSpan{span: span}
}

var _ telemetry.Tracer = (*OTelTracer)(nil)

// otelSpan wraps an OpenTelemetry span.
type otelSpan struct {
	span trace.Span
}

// End implements telemetry.Span. A WithEndTime option becomes an explicit
// end timestamp.
func (s *otelSpan) End(opts ...telemetry.EndOption) {
	cfg := &telemetry.EndConfig{}
	for _, opt := range opts {
		opt.ApplyEnd(cfg)
	}
	if !cfg.EndTime.IsZero() {
		s.span.End(trace.WithTimestamp(cfg.EndTime))
		return
	}
	s.span.End()
}

// SetAttributes implements telemetry.Span.
func (s *otelSpan) SetAttributes(attrs ...telemetry.Attribute) {
	s.span.SetAttributes(convertAttributes(attrs)...)
}

// RecordError implements telemetry.Span.
func (s *otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

// SetStatus implements telemetry.Span.
func (s *otelSpan) SetStatus(code telemetry.StatusCode, description string) {
	s.span.SetStatus(convertStatusCode(code), description)
}

var _ telemetry.Span = (*otelSpan)(nil)

// convertAttributes converts domain attributes to OTel attributes.
func convertAttributes(attrs []telemetry.Attribute) []attribute.KeyValue {
	result := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		switch v := attr.Value.(type) {
		case string:
			result = append(result, attribute.String(attr.Key, v))
		case int64:
			result = append(result, attribute.Int64(attr.Key, v))
		case bool:
			result = append(result, attribute.Bool(attr.Key, v))
		}
	}
	return result
}

// convertSpanKind converts domain span kind to OTel span kind.
func convertSpanKind(kind telemetry.SpanKind) trace.SpanKind {
	switch kind {
	case telemetry.SpanKindInternal:
		return trace.SpanKindInternal
	case telemetry.SpanKindClient:
		return trace.SpanKindClient
	default:
		return trace.SpanKindUnspecified
	}
}

// convertStatusCode converts domain status code to OTel status code.
func convertStatusCode(code telemetry.StatusCode) codes.Code {
	switch code {
	case telemetry.StatusCodeOK:
		return codes.Ok
	case telemetry.StatusCodeError:
		return codes.Error
	default:
		return codes.Unset
	}
}
