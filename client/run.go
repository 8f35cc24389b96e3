package client

import (
	"context"

	"github.com/Govcraft/emergent-primitives/message"
)

// SinkFunc processes one subscribed envelope. Returning an error stops the
// sink loop and surfaces the error to the RunSink caller.
type SinkFunc func(ctx context.Context, env *message.Envelope) error

// RunSink connects a sink, subscribes to the given message types, and
// invokes fn for every envelope until the subscription ends, the context
// is cancelled, or fn fails. The connection closes before RunSink returns.
//
// A clean end of stream (engine-driven shutdown) returns nil: the
// primitive exits when the engine says so.
//
//	err := client.RunSink(ctx, "console-sink", []string{"timer.tick"},
//	    func(_ context.Context, env *message.Envelope) error {
//	        fmt.Println(env.Payload())
//	        return nil
//	    })
func RunSink(ctx context.Context, name string, types []string, fn SinkFunc, opts ...Option) error {
	sink, err := ConnectSink(ctx, name, opts...)
	if err != nil {
		return err
	}
	defer sink.Close()

	stream, err := sink.Subscribe(ctx, types...)
	if err != nil {
		return err
	}

	for {
		env, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if env == nil {
			return nil
		}
		if err := fn(ctx, env); err != nil {
			return err
		}
	}
}

// HandlerFunc transforms one subscribed envelope into zero or more
// envelopes to publish. A nil slice publishes nothing.
type HandlerFunc func(ctx context.Context, env *message.Envelope) ([]*message.Envelope, error)

// RunHandler connects a handler, subscribes to the given message types,
// and publishes whatever fn returns for each envelope. Lifecycle matches
// RunSink.
func RunHandler(ctx context.Context, name string, types []string, fn HandlerFunc, opts ...Option) error {
	handler, err := ConnectHandler(ctx, name, opts...)
	if err != nil {
		return err
	}
	defer handler.Close()

	stream, err := handler.Subscribe(ctx, types...)
	if err != nil {
		return err
	}

	for {
		env, err := stream.Next(ctx)
		if err != nil {
			return err
		}
		if env == nil {
			return nil
		}
		out, err := fn(ctx, env)
		if err != nil {
			return err
		}
		for _, produced := range out {
			if err := handler.Publish(ctx, produced); err != nil {
				return err
			}
		}
	}
}
