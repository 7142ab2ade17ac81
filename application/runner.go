// Package application orchestrates one signal session: running the agent,
// recording tool-call timing, replaying trace spans, and persisting reports.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/signal/domain/ledger"
	"github.com/felixgeelhaar/signal/domain/session"
	"github.com/felixgeelhaar/signal/infrastructure/logging"
)

// RunResult is the outcome of one consumed session stream.
type RunResult struct {
	// Output is the newline-joined concatenation of agent text fragments.
	Output string

	// Ledger holds every tool call observed on the stream.
	Ledger *ledger.Ledger
}

// Runner consumes a session's event stream, surfaces agent text as it
// arrives, and records tool calls with wall-clock timing.
type Runner struct {
	session session.Session
	display io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDisplay sets the writer agent text fragments are streamed to.
func WithDisplay(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.display = w
	}
}

// NewRunner creates a runner over the given session.
func NewRunner(s session.Session, opts ...RunnerOption) *Runner {
	r := &Runner{
		session: s,
		display: io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run submits the prompt and consumes the stream until the agent signals end
// of turn. Transport failures are fatal for the run: the partial output is
// discarded and the error returned.
func (r *Runner) Run(ctx context.Context, prompt string) (*RunResult, error) {
	led := ledger.New(uuid.NewString())

	stream, err := r.session.Query(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer stream.Close()

	var parts []string
	for {
		ev, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("session stream: %w", err)
		}

		switch e := ev.(type) {
		case session.TextEvent:
			parts = append(parts, e.Text)
			fmt.Fprintln(r.display, e.Text)

		case session.ToolInvocationEvent:
			if err := led.RecordInvocation(e.CallID, e.ToolName, e.Input); err != nil {
				logging.Warn().Str("call_id", e.CallID).Str("tool", e.ToolName).Err(err).
					Msg("tool invocation not recorded")
			}

		case session.ToolResultEvent:
			if !led.RecordResult(e.CallID, e.Output) {
				// Stale results from the remote protocol are dropped.
				logging.Debug().Str("call_id", e.CallID).Msg("result for unknown call dropped")
			}
		}
	}

	if n := len(led.Pending()); n > 0 {
		logging.Warn().Int("pending", n).Str("session_id", led.SessionID()).
			Msg("stream ended with unresolved tool calls")
	}

	return &RunResult{
		Output: strings.Join(parts, "\n"),
		Ledger: led,
	}, nil
}
