package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/felixgeelhaar/signal/application"
	"github.com/felixgeelhaar/signal/domain/ledger"
	"github.com/felixgeelhaar/signal/domain/session"
)

// scriptedStream replays a fixed event sequence, then ends with err (io.EOF
// for a clean end of turn).
type scriptedStream struct {
	events []session.Event
	err    error
	pos    int
}

func (s *scriptedStream) Next(_ context.Context) (session.Event, error) {
	if s.pos >= len(s.events) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *scriptedStream) Close() error { return nil }

type scriptedSession struct {
	stream   *scriptedStream
	queryErr error
	prompt   string
}

func (s *scriptedSession) Query(_ context.Context, prompt string) (session.Stream, error) {
	s.prompt = prompt
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.stream, nil
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("joins agent text with newlines", func(t *testing.T) {
		t.Parallel()

		sess := &scriptedSession{stream: &scriptedStream{events: []session.Event{
			session.TextEvent{Text: "Checking error rates."},
			session.TextEvent{Text: "All clear."},
		}}}

		var display bytes.Buffer
		r := application.NewRunner(sess, application.WithDisplay(&display))
		res, err := r.Run(context.Background(), "Report on the last 24 hours.")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Output != "Checking error rates.\nAll clear." {
			t.Errorf("Output = %q", res.Output)
		}
		if display.String() != "Checking error rates.\nAll clear.\n" {
			t.Errorf("display = %q, text should stream as it arrives", display.String())
		}
		if sess.prompt != "Report on the last 24 hours." {
			t.Errorf("prompt forwarded = %q", sess.prompt)
		}
	})

	t.Run("records invocations and results", func(t *testing.T) {
		t.Parallel()

		sess := &scriptedSession{stream: &scriptedStream{events: []session.Event{
			session.ToolInvocationEvent{CallID: "c1", ToolName: "mcp__datadog__search_logs", Input: json.RawMessage(`{"q":"status:error"}`)},
			session.ToolResultEvent{CallID: "c1", Output: json.RawMessage(`{"rows":12}`)},
			session.ToolInvocationEvent{CallID: "c2", ToolName: "mcp__signal__submit_report", Input: json.RawMessage(`{"summary":"S"}`)},
		}}}

		r := application.NewRunner(sess)
		res, err := r.Run(context.Background(), "p")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		recs := res.Ledger.Records()
		if len(recs) != 2 {
			t.Fatalf("ledger count = %d, want 2", len(recs))
		}
		if recs[0].Status() != ledger.StatusComplete {
			t.Errorf("c1 status = %s, want complete", recs[0].Status())
		}
		if recs[0].EndedAt.Before(recs[0].StartedAt) {
			t.Errorf("c1 end %v before start %v", recs[0].EndedAt, recs[0].StartedAt)
		}
		if recs[1].Status() != ledger.StatusPending {
			t.Errorf("c2 status = %s, want pending at stream end", recs[1].Status())
		}
	})

	t.Run("drops result for unseen invocation", func(t *testing.T) {
		t.Parallel()

		sess := &scriptedSession{stream: &scriptedStream{events: []session.Event{
			session.ToolResultEvent{CallID: "ghost", Output: json.RawMessage(`{}`)},
			session.TextEvent{Text: "done"},
		}}}

		r := application.NewRunner(sess)
		res, err := r.Run(context.Background(), "p")
		if err != nil {
			t.Fatalf("Run() must not fail on stale results: %v", err)
		}
		if res.Ledger.Count() != 0 {
			t.Errorf("ledger count = %d, stale result must not create a record", res.Ledger.Count())
		}
	})

	t.Run("excludes tool result text from output", func(t *testing.T) {
		t.Parallel()

		sess := &scriptedSession{stream: &scriptedStream{events: []session.Event{
			session.TextEvent{Text: "agent text"},
			session.ToolInvocationEvent{CallID: "c1", ToolName: "Read", Input: nil},
			session.ToolResultEvent{CallID: "c1", Output: json.RawMessage(`{"content":"relayed text"}`)},
		}}}

		r := application.NewRunner(sess)
		res, err := r.Run(context.Background(), "p")
		if err != nil {
			t.Fatal(err)
		}
		if res.Output != "agent text" {
			t.Errorf("Output = %q, tool result relay must be excluded", res.Output)
		}
	})

	t.Run("stream failure aborts the run", func(t *testing.T) {
		t.Parallel()

		transportErr := errors.New("connection reset")
		sess := &scriptedSession{stream: &scriptedStream{
			events: []session.Event{session.TextEvent{Text: "partial"}},
			err:    transportErr,
		}}

		r := application.NewRunner(sess)
		res, err := r.Run(context.Background(), "p")
		if !errors.Is(err, transportErr) {
			t.Fatalf("Run() error = %v, want wrapped transport error", err)
		}
		if res != nil {
			t.Error("Run() must discard partial output on transport failure")
		}
	})

	t.Run("query failure aborts the run", func(t *testing.T) {
		t.Parallel()

		sess := &scriptedSession{queryErr: errors.New("dial failed")}
		r := application.NewRunner(sess)
		if _, err := r.Run(context.Background(), "p"); err == nil {
			t.Fatal("Run() error = nil, want session open failure")
		}
	})
}
