package ledger

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ledger maps call identifiers to tool call records for one session.
//
// The ledger is mutated only by the session runner, single-threaded, and is
// read-only once handed to the replay emitter, so no locking is required.
type Ledger struct {
	sessionID string
	records   map[string]*ToolCallRecord
	order     []string
	now       func() time.Time
}

// New creates an empty ledger scoped to the given session.
func New(sessionID string) *Ledger {
	return &Ledger{
		sessionID: sessionID,
		records:   make(map[string]*ToolCallRecord),
		now:       time.Now,
	}
}

// SessionID returns the session this ledger belongs to.
func (l *Ledger) SessionID() string {
	return l.sessionID
}

// RecordInvocation creates a pending record for the given call. Call IDs must
// be unique within the session; a duplicate is rejected.
func (l *Ledger) RecordInvocation(callID, toolName string, input json.RawMessage) error {
	if callID == "" {
		return fmt.Errorf("record invocation: empty call id")
	}
	if _, exists := l.records[callID]; exists {
		return fmt.Errorf("record invocation: duplicate call id %q", callID)
	}

	l.records[callID] = &ToolCallRecord{
		CallID:    callID,
		ToolName:  toolName,
		Input:     input,
		StartedAt: l.now(),
	}
	l.order = append(l.order, callID)
	return nil
}

// RecordResult sets the output payload and end timestamp on the matching
// record. Returns false when the call ID is unknown or the record already
// completed; the remote protocol may deliver stale results and those are
// dropped without creating a record.
func (l *Ledger) RecordResult(callID string, output json.RawMessage) bool {
	rec, ok := l.records[callID]
	if !ok || rec.Status() == StatusComplete {
		return false
	}

	rec.Output = output
	rec.EndedAt = l.now()
	return true
}

// Records returns all records in observation order.
func (l *Ledger) Records() []ToolCallRecord {
	out := make([]ToolCallRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.records[id])
	}
	return out
}

// Pending returns the records that never received a result.
func (l *Ledger) Pending() []ToolCallRecord {
	var out []ToolCallRecord
	for _, id := range l.order {
		if rec := l.records[id]; rec.Status() == StatusPending {
			out = append(out, *rec)
		}
	}
	return out
}

// Count returns the number of recorded invocations.
func (l *Ledger) Count() int {
	return len(l.order)
}
