// Command console-sink subscribes to message types and prints their
// payloads to stdout. Useful for debugging and monitoring flows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govcraft/emergent-primitives/client"
	"github.com/Govcraft/emergent-primitives/message"
	"github.com/Govcraft/emergent-primitives/pkg/retry"
)

// stringList collects repeated -subscribe flags.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var types stringList
	flag.Var(&types, "subscribe", "message type to subscribe to (repeatable)")
	pretty := flag.Bool("pretty", false, "pretty-print JSON output")
	timestamps := flag.Bool("timestamp", false, "prefix each line with the arrival time")
	name := flag.String("name", "console-sink", "client name when EMERGENT_NAME is unset")
	flag.Parse()

	if len(types) == 0 {
		fmt.Fprintln(os.Stderr, "console-sink: at least one -subscribe flag is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := client.RunSink(ctx, *name, types,
		func(_ context.Context, env *message.Envelope) error {
			line, err := formatPayload(env.Payload(), *pretty)
			if err != nil {
				return err
			}
			if *timestamps {
				fmt.Printf("[%s] %s\n", time.Now().Format(time.RFC3339Nano), line)
			} else {
				fmt.Println(line)
			}
			return nil
		},
		client.WithConnectRetry(retry.Quick()))
	if err != nil && ctx.Err() == nil {
		slog.Error("console-sink failed", "error", err)
		os.Exit(1)
	}
}

func formatPayload(payload any, pretty bool) (string, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
