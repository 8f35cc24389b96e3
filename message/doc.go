// Package message defines the application envelope exchanged between
// primitives and the Emergent engine.
//
// An Envelope is immutable after construction. The Builder is the only
// way to create one locally; inbound envelopes are reconstructed from
// their JSON or msgpack wire form during push dispatch. Identity,
// provenance (source, causation, correlation), and the creation timestamp
// travel with the envelope; routing is driven solely by the dot-delimited
// message type.
//
// Creating and publishing:
//
//	env, err := message.New("timer.tick", map[string]any{"seq": 1})
//	if err != nil {
//	    return err
//	}
//	if err := source.Publish(ctx, env); err != nil {
//	    return err
//	}
//
// The publishing client always overwrites the envelope's source with its
// own identity, so consumers can trust provenance.
package message
