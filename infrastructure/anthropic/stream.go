package anthropic

import (
	"context"
	"io"
	"sync"

	"github.com/felixgeelhaar/signal/domain/session"
)

// eventStream delivers session events produced by the agentic loop. The loop
// runs in its own goroutine and closes the channel when the conversation
// ends; a transport failure is surfaced as the terminal error instead of
// io.EOF. Close unblocks the producer when the consumer stops reading early.
type eventStream struct {
	events    chan streamItem
	closed    chan struct{}
	closeOnce sync.Once
	err       error
	done      bool
}

type streamItem struct {
	event session.Event
	err   error
}

func newEventStream() *eventStream {
	return &eventStream{
		events: make(chan streamItem),
		closed: make(chan struct{}),
	}
}

// Next implements session.Stream.
func (s *eventStream) Next(ctx context.Context) (session.Event, error) {
	if s.done {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		s.done = true
		s.err = session.ErrStreamClosed
		return nil, s.err
	case item, ok := <-s.events:
		if !ok {
			s.done = true
			return nil, io.EOF
		}
		if item.err != nil {
			s.done = true
			s.err = item.err
			return nil, item.err
		}
		return item.event, nil
	}
}

// Close implements session.Stream. After Close the producer goroutine stops
// at its next emit and Next returns session.ErrStreamClosed.
func (s *eventStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return nil
}

var _ session.Stream = (*eventStream)(nil)

// emit delivers an event to the consumer. It returns false when the consumer
// is gone, so the loop can stop producing.
func (s *eventStream) emit(ctx context.Context, ev session.Event) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.closed:
		return false
	case s.events <- streamItem{event: ev}:
		return true
	}
}

// fail delivers a terminal error and closes the stream.
func (s *eventStream) fail(ctx context.Context, err error) {
	select {
	case <-ctx.Done():
	case <-s.closed:
	case s.events <- streamItem{err: err}:
	}
	close(s.events)
}

// finish closes the stream cleanly.
func (s *eventStream) finish() {
	close(s.events)
}
