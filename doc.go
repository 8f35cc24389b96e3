// Package emergent is the Go client library for the Emergent engine: it
// connects primitive processes to the engine's central broker over a Unix
// domain socket and exchanges routed, typed message envelopes with it.
//
// # Primitives
//
// Every process that talks to the engine is a primitive with one of three
// capabilities:
//
//   - Source: publishes envelopes into the engine.
//   - Sink: subscribes to message types and consumes routed envelopes.
//   - Handler: both, over a single connection.
//
// The engine spawns primitives and hands them their rendezvous through the
// EMERGENT_SOCKET and EMERGENT_NAME environment variables; primitives can
// also run standalone against a known socket path.
//
// # Packages
//
//   - client: connection lifecycle, request correlation, push streams, and
//     the Source/Sink/Handler facades.
//   - message: the immutable application envelope and its builder.
//   - frame: the length-prefixed wire protocol and its payload envelopes.
//   - config: socket and identity resolution (env, YAML, defaults).
//   - errors: classified error handling shared across the module.
//   - metric: Prometheus instrumentation and the metrics HTTP server.
//
// A minimal source:
//
//	source, err := client.ConnectSource(ctx, "timer")
//	if err != nil {
//	    return err
//	}
//	defer source.Close()
//
//	env, _ := message.New("timer.tick", map[string]any{"seq": 1})
//	return source.Publish(ctx, env)
//
// A minimal sink:
//
//	return client.RunSink(ctx, "printer", []string{"timer.tick"},
//	    func(_ context.Context, env *message.Envelope) error {
//	        fmt.Println(env.Payload())
//	        return nil
//	    })
package emergent
