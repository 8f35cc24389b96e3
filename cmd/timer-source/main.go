// Command timer-source publishes a timer.tick envelope at a fixed interval.
// Useful for driving flows during development and for verifying an engine
// deployment end to end.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govcraft/emergent-primitives/client"
	"github.com/Govcraft/emergent-primitives/message"
	"github.com/Govcraft/emergent-primitives/pkg/retry"
)

func main() {
	interval := flag.Duration("interval", time.Second, "time between ticks")
	messageType := flag.String("type", "timer.tick", "message type to publish")
	name := flag.String("name", "timer-source", "client name when EMERGENT_NAME is unset")
	flag.Parse()

	if err := run(*name, *messageType, *interval); err != nil {
		slog.Error("timer-source failed", "error", err)
		os.Exit(1)
	}
}

func run(name, messageType string, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := client.ConnectSource(ctx, name,
		client.WithConnectRetry(retry.Quick()))
	if err != nil {
		return err
	}
	defer source.Close()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case tick := <-ticker.C:
			seq++
			env, err := message.New(messageType, map[string]any{
				"seq":  seq,
				"time": tick.UnixMilli(),
			})
			if err != nil {
				return err
			}
			if err := source.Publish(ctx, env); err != nil {
				return err
			}
			slog.Debug("published tick", "seq", seq)
		}
	}
}
