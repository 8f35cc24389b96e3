package client

import (
	"context"
	"sync"

	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/message"
)

// Stream delivers subscribed envelopes to a single consumer in arrival
// order. The read loop queues envelopes without blocking; the consumer
// drains them with Next.
//
// A stream supports exactly one waiting consumer at a time; a second
// concurrent Next fails with ErrStreamBusy. Envelopes queued before the
// stream closed are still delivered, then Next reports the close.
type Stream struct {
	mu      sync.Mutex
	queue   []*message.Envelope
	waiter  chan streamResult
	closed  bool
	err     error
	onClose func()
}

type streamResult struct {
	env *message.Envelope
	err error
}

func newStream(onClose func()) *Stream {
	return &Stream{onClose: onClose}
}

// Next returns the next envelope. It blocks until an envelope arrives, the
// context is cancelled, or the stream closes.
//
// Return values:
//   - (env, nil): the next envelope in arrival order.
//   - (nil, nil): end of stream; the subscription ended cleanly and no
//     more envelopes will ever arrive.
//   - (nil, err): ctx.Err() on cancellation, ErrStreamBusy when another
//     Next is already waiting, or the connection error that tore the
//     stream down.
func (s *Stream) Next(ctx context.Context) (*message.Envelope, error) {
	s.mu.Lock()

	if len(s.queue) > 0 {
		env := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return env, nil
	}

	if s.closed {
		err := s.err
		s.mu.Unlock()
		return nil, err
	}

	if s.waiter != nil {
		s.mu.Unlock()
		return nil, errors.ErrStreamBusy
	}

	ch := make(chan streamResult, 1)
	s.waiter = ch
	s.mu.Unlock()

	select {
	case r := <-ch:
		return r.env, r.err
	case <-ctx.Done():
		s.mu.Lock()
		if s.waiter == ch {
			s.waiter = nil
			s.mu.Unlock()
			return nil, ctx.Err()
		}
		s.mu.Unlock()
		// A result was delivered concurrently with cancellation; the
		// channel is buffered so it is already there.
		r := <-ch
		return r.env, r.err
	}
}

// Close ends the stream cleanly. A blocked Next wakes up with the end
// sentinel; envelopes already queued remain drainable before the sentinel
// is reported. Close is idempotent.
func (s *Stream) Close() error {
	s.close(nil)
	return nil
}

// push appends an envelope or hands it straight to the waiting consumer.
// Returns false when the stream is closed and the envelope was dropped.
func (s *Stream) push(env *message.Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if s.waiter != nil {
		s.waiter <- streamResult{env: env}
		s.waiter = nil
		return true
	}

	s.queue = append(s.queue, env)
	return true
}

// close marks the stream finished. A nil err is a clean end; a non-nil err
// is reported to the consumer once the queue drains.
func (s *Stream) close(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err

	if s.waiter != nil {
		// Nothing queued if a waiter is blocked, so report the close now.
		s.waiter <- streamResult{err: err}
		s.waiter = nil
	}
	onClose := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}
