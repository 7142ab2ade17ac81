// Package ledger provides the in-memory record of tool calls observed during
// one session, used to reconstruct accurate timing after the stream ends.
package ledger

import (
	"encoding/json"
	"time"
)

// Status classifies the lifecycle of a tool call record.
type Status string

const (
	// StatusPending means the invocation was observed but no result arrived.
	// Pending is a valid terminal state when the stream ends early.
	StatusPending Status = "pending"

	// StatusComplete means the matching result arrived. Entered at most once.
	StatusComplete Status = "complete"
)

// ToolCallRecord captures one tool invocation: what was called, with which
// arguments, and when it started and finished.
type ToolCallRecord struct {
	// CallID is the invocation identifier, unique within the session.
	CallID string `json:"call_id"`

	// ToolName is the name of the invoked tool.
	ToolName string `json:"tool_name"`

	// Input is the argument payload captured at invocation time.
	Input json.RawMessage `json:"input"`

	// StartedAt is when the invocation event was observed.
	StartedAt time.Time `json:"started_at"`

	// Output is the result payload. Nil while pending.
	Output json.RawMessage `json:"output,omitempty"`

	// EndedAt is when the result event was observed. Zero while pending.
	EndedAt time.Time `json:"ended_at,omitzero"`
}

// Status returns the record's lifecycle state.
func (r ToolCallRecord) Status() Status {
	if r.EndedAt.IsZero() {
		return StatusPending
	}
	return StatusComplete
}

// EndOr returns the end timestamp, or fallback when no result ever arrived.
func (r ToolCallRecord) EndOr(fallback time.Time) time.Time {
	if r.EndedAt.IsZero() {
		return fallback
	}
	return r.EndedAt
}

// Duration returns the call duration using fallback as the end time for
// pending records. Never negative.
func (r ToolCallRecord) Duration(fallback time.Time) time.Duration {
	d := r.EndOr(fallback).Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
