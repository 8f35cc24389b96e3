package client

import (
	"context"

	"github.com/Govcraft/emergent-primitives/frame"
	"github.com/Govcraft/emergent-primitives/message"
)

// Handler is the bidirectional facade: the union of Source and Sink over
// one connection. Handlers consume envelopes, transform them, and publish
// results.
type Handler struct {
	c *Client
}

// ConnectHandler connects to the engine as a bidirectional primitive.
func ConnectHandler(ctx context.Context, name string, opts ...Option) (*Handler, error) {
	c, err := connect(ctx, frame.KindHandler, name, opts...)
	if err != nil {
		return nil, err
	}
	return &Handler{c: c}, nil
}

// Name returns this handler's identity as seen by the engine.
func (h *Handler) Name() string {
	return h.c.Name()
}

// Publish sends an envelope to the engine for routing, fire and forget.
// The envelope's source is overwritten with this client's name.
func (h *Handler) Publish(ctx context.Context, env *message.Envelope) error {
	return h.c.publish(ctx, env)
}

// Subscribe registers interest in the given message types and returns a
// stream of matching envelopes. Calling Subscribe again replaces the
// stream; the caller is responsible for closing the previous one.
func (h *Handler) Subscribe(ctx context.Context, types ...string) (*Stream, error) {
	return h.c.subscribe(ctx, types...)
}

// Unsubscribe removes interest in the given message types. Best effort.
func (h *Handler) Unsubscribe(ctx context.Context, types ...string) error {
	return h.c.unsubscribe(ctx, types...)
}

// Discover queries the engine for the capability map of known primitives.
func (h *Handler) Discover(ctx context.Context) (map[string]any, error) {
	return h.c.discover(ctx)
}

// Subscriptions returns the message types this client is subscribed to,
// as the engine sees them.
func (h *Handler) Subscriptions(ctx context.Context) ([]string, error) {
	return h.c.subscriptions(ctx)
}

// Topology returns the engine's current routing topology.
func (h *Handler) Topology(ctx context.Context) (map[string]any, error) {
	return h.c.topology(ctx)
}

// Close disconnects from the engine. Idempotent.
func (h *Handler) Close() error {
	return h.c.close()
}
