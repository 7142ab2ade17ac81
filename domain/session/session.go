package session

import (
	"context"
	"errors"
)

// ErrStreamClosed is returned by Next after the stream has been closed.
var ErrStreamClosed = errors.New("session stream closed")

// Stream is a finite ordered sequence of message events consumed by exactly
// one reader. Next suspends until the next event arrives and returns io.EOF
// once the agent signals end of turn. Any other error is a transport failure
// and terminates the stream. Close releases the producer; a consumer that
// stops reading before io.EOF must call it. Close is idempotent.
type Stream interface {
	Next(ctx context.Context) (Event, error)
	Close() error
}

// Session is one end-to-end exchange with the remote agent runtime.
// Implementations live in infrastructure.
type Session interface {
	// Query submits the prompt and returns the resulting event stream.
	Query(ctx context.Context, prompt string) (Stream, error)
}
