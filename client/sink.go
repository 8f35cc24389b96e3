package client

import (
	"context"

	"github.com/Govcraft/emergent-primitives/frame"
)

// Sink is the subscribe-only facade. A sink consumes envelopes routed by
// the engine and cannot publish; the restriction is structural.
type Sink struct {
	c *Client
}

// ConnectSink connects to the engine as a subscribe-only primitive.
func ConnectSink(ctx context.Context, name string, opts ...Option) (*Sink, error) {
	c, err := connect(ctx, frame.KindSink, name, opts...)
	if err != nil {
		return nil, err
	}
	return &Sink{c: c}, nil
}

// Name returns this sink's identity as seen by the engine.
func (s *Sink) Name() string {
	return s.c.Name()
}

// Subscribe registers interest in the given message types and returns a
// stream of matching envelopes. Calling Subscribe again replaces the
// stream; the caller is responsible for closing the previous one.
func (s *Sink) Subscribe(ctx context.Context, types ...string) (*Stream, error) {
	return s.c.subscribe(ctx, types...)
}

// Unsubscribe removes interest in the given message types. Best effort:
// an engine rejection is logged and the local view updated regardless.
func (s *Sink) Unsubscribe(ctx context.Context, types ...string) error {
	return s.c.unsubscribe(ctx, types...)
}

// Discover queries the engine for the capability map of known primitives.
func (s *Sink) Discover(ctx context.Context) (map[string]any, error) {
	return s.c.discover(ctx)
}

// Subscriptions returns the message types this client is subscribed to,
// as the engine sees them.
func (s *Sink) Subscriptions(ctx context.Context) ([]string, error) {
	return s.c.subscriptions(ctx)
}

// Topology returns the engine's current routing topology.
func (s *Sink) Topology(ctx context.Context) (map[string]any, error) {
	return s.c.topology(ctx)
}

// Close disconnects from the engine. Idempotent.
func (s *Sink) Close() error {
	return s.c.close()
}
