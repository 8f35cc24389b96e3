// Package client connects primitives to the Emergent engine over one
// persistent Unix domain socket.
//
// Three facades expose the capability model:
//
//   - Source: publish-only. Feeds envelopes into the engine.
//   - Sink: subscribe-only. Consumes envelopes the engine routes.
//   - Handler: bidirectional, the union of both.
//
// The restriction is structural: a Source has no subscribe surface and a
// Sink has no publish surface, so misuse fails at compile time.
//
// # Connecting
//
// The engine sets EMERGENT_SOCKET and EMERGENT_NAME when spawning a
// primitive; the constructors read both and fall back to the given name:
//
//	source, err := client.ConnectSource(ctx, "gps-reader")
//	if err != nil {
//	    return err
//	}
//	defer source.Close()
//
//	env, _ := message.New("sensor.gps", reading)
//	if err := source.Publish(ctx, env); err != nil {
//	    return err
//	}
//
// # Consuming
//
//	sink, err := client.ConnectSink(ctx, "position-logger")
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
//	stream, err := sink.Subscribe(ctx, "sensor.gps")
//	if err != nil {
//	    return err
//	}
//	for {
//	    env, err := stream.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if env == nil {
//	        return nil // subscription ended cleanly
//	    }
//	    log.Printf("position: %v", env.Payload())
//	}
//
// # Behavior
//
// A background read loop owns the socket's read side. Correlated requests
// (Subscribe, Discover, Subscriptions, Topology) time out after the
// configured request timeout, 30s by default. Publish is fire and forget.
// A malformed frame discards the read buffer and the connection carries
// on; a socket error rejects all pending requests and ends the stream
// with the connection error. Engine-driven shutdown signals end the
// stream cleanly without ever surfacing to the consumer.
//
// Connection behavior is tuned with options: WithSocketPath,
// WithRequestTimeout, WithDialTimeout, WithFormat, WithLogger,
// WithMetrics, and WithConnectRetry for primitives that start before the
// engine's socket exists.
package client
