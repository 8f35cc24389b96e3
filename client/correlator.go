package client

import (
	"sync"
	"time"

	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/frame"
)

// requestResult is delivered to a waiting requester exactly once: either the
// engine's response envelope or a local failure (timeout, teardown).
type requestResult struct {
	resp *frame.ResponseEnvelope
	err  error
}

// correlator tracks in-flight correlated requests. Each registration arms a
// timer; completion, timeout, and teardown race for the pending entry, and
// whoever deletes it under the mutex delivers the single result.
type correlator struct {
	mu      sync.Mutex
	pending map[string]*pendingRequest
	closed  bool
	cause   error // why registrations are refused, set by rejectAll
}

type pendingRequest struct {
	ch    chan requestResult
	timer *time.Timer
}

func newCorrelator() *correlator {
	return &correlator{pending: make(map[string]*pendingRequest)}
}

// register adds a pending entry for the given correlation id and arms its
// timeout. The returned channel receives exactly one result.
func (c *correlator) register(id string, timeout time.Duration) (<-chan requestResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		if c.cause != nil {
			return nil, c.cause
		}
		return nil, errors.ErrClientClosed
	}

	p := &pendingRequest{ch: make(chan requestResult, 1)}
	p.timer = time.AfterFunc(timeout, func() {
		c.fail(id, errors.ErrTimeout)
	})
	c.pending[id] = p

	return p.ch, nil
}

// complete delivers an engine response to the matching waiter. Responses
// with no pending entry (late arrivals after timeout, or ids this client
// never issued) are dropped; the return value reports whether a waiter
// was matched.
func (c *correlator) complete(id string, resp *frame.ResponseEnvelope) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	p.ch <- requestResult{resp: resp}
	return true
}

// fail delivers a local error to the matching waiter, if still pending.
func (c *correlator) fail(id string, err error) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	p.ch <- requestResult{err: err}
	return true
}

// rejectAll fails every pending request with err and makes every later
// registration fail with the same err, so callers see why the connection
// died rather than a generic disposed error. Called on connection teardown
// and client close.
func (c *correlator) rejectAll(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]*pendingRequest)
	c.closed = true
	c.cause = err
	c.mu.Unlock()

	for _, p := range pending {
		p.timer.Stop()
		p.ch <- requestResult{err: err}
	}
}

// take removes and returns the pending entry for id, stopping its timer.
// Deletion under the mutex guarantees exactly-once delivery even when a
// response and the timeout race.
func (c *correlator) take(id string) *pendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	p.timer.Stop()
	return p
}

// inFlight returns the number of pending requests.
func (c *correlator) inFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
