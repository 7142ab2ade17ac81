// Package telemetry provides the tracing interfaces signal emits through.
//
// Spans support explicit start-time and end-time overrides so the replay
// emitter can report retroactive timing without touching backend internals.
package telemetry

import (
	"context"
	"time"
)

// Tracer creates spans for distributed tracing.
type Tracer interface {
	// StartSpan starts a new span and returns a new context containing it.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span represents a unit of work in a trace.
type Span interface {
	// End completes the span. WithEndTime overrides the natural end time.
	End(opts ...EndOption)

	// SetAttributes sets attributes on the span.
	SetAttributes(attrs ...Attribute)

	// RecordError records an error on the span.
	RecordError(err error)

	// SetStatus sets the span status.
	SetStatus(code StatusCode, description string)
}

// SpanOption configures a span at creation.
type SpanOption interface {
	ApplySpan(*SpanConfig)
}

// SpanConfig holds span creation configuration.
type SpanConfig struct {
	Attributes []Attribute
	Kind       SpanKind
	StartTime  time.Time
}

// SpanOptionFunc is a function that implements SpanOption.
type SpanOptionFunc func(*SpanConfig)

// ApplySpan implements SpanOption.
func (f SpanOptionFunc) ApplySpan(c *SpanConfig) { f(c) }

// WithAttributes sets span attributes at creation.
func WithAttributes(attrs ...Attribute) SpanOption {
	return SpanOptionFunc(func(c *SpanConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	})
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return SpanOptionFunc(func(c *SpanConfig) {
		c.Kind = kind
	})
}

// WithStartTime overrides the span's natural start time.
func WithStartTime(t time.Time) SpanOption {
	return SpanOptionFunc(func(c *SpanConfig) {
		c.StartTime = t
	})
}

// EndOption configures span completion.
type EndOption interface {
	ApplyEnd(*EndConfig)
}

// EndConfig holds span completion configuration.
type EndConfig struct {
	EndTime time.Time
}

// EndOptionFunc is a function that implements EndOption.
type EndOptionFunc func(*EndConfig)

// ApplyEnd implements EndOption.
func (f EndOptionFunc) ApplyEnd(c *EndConfig) { f(c) }

// WithEndTime overrides the span's natural end time.
func WithEndTime(t time.Time) EndOption {
	return EndOptionFunc(func(c *EndConfig) {
		c.EndTime = t
	})
}

// SpanKind represents the role of a span.
type SpanKind int

const (
	SpanKindUnspecified SpanKind = iota
	SpanKindInternal
	SpanKindClient
)

// StatusCode represents the status of a span.
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOK
	StatusCodeError
)

// Attribute represents a key-value pair.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}
