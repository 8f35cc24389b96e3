package client

import (
	"context"

	"github.com/Govcraft/emergent-primitives/frame"
	"github.com/Govcraft/emergent-primitives/message"
)

// Source is the publish-only facade. A source feeds envelopes into the
// engine and never receives application messages; the restriction is
// structural, there is no subscribe surface to misuse.
type Source struct {
	c *Client
}

// ConnectSource connects to the engine as a publish-only primitive.
//
// The socket path and client name come from EMERGENT_SOCKET and
// EMERGENT_NAME when set; name is the fallback identity.
func ConnectSource(ctx context.Context, name string, opts ...Option) (*Source, error) {
	c, err := connect(ctx, frame.KindSource, name, opts...)
	if err != nil {
		return nil, err
	}
	return &Source{c: c}, nil
}

// Name returns this source's identity as seen by the engine.
func (s *Source) Name() string {
	return s.c.Name()
}

// Publish sends an envelope to the engine for routing, fire and forget.
// The envelope's source is overwritten with this client's name.
func (s *Source) Publish(ctx context.Context, env *message.Envelope) error {
	return s.c.publish(ctx, env)
}

// Discover queries the engine for the capability map of known primitives.
func (s *Source) Discover(ctx context.Context) (map[string]any, error) {
	return s.c.discover(ctx)
}

// Close disconnects from the engine. Idempotent.
func (s *Source) Close() error {
	return s.c.close()
}
