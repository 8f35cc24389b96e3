package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Govcraft/emergent-primitives/config"
	"github.com/Govcraft/emergent-primitives/errors"
	"github.com/Govcraft/emergent-primitives/frame"
	"github.com/Govcraft/emergent-primitives/metric"
	"github.com/Govcraft/emergent-primitives/pkg/retry"
)

// Option configures a client during connect.
type Option func(*Client) error

// WithConfig replaces the environment-derived configuration entirely.
// Options applied after it still override individual fields.
func WithConfig(cfg config.Config) Option {
	return func(c *Client) error {
		c.cfg = cfg
		return nil
	}
}

// WithSocketPath overrides the engine socket path.
func WithSocketPath(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return errors.WrapInvalid(
				fmt.Errorf("socket path is empty"),
				"Client", "WithSocketPath", "validate option")
		}
		c.cfg.SocketPath = path
		return nil
	}
}

// WithRequestTimeout overrides the per-request response deadline.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.WrapInvalid(
				fmt.Errorf("request timeout %v is not positive", timeout),
				"Client", "WithRequestTimeout", "validate option")
		}
		c.cfg.RequestTimeout = timeout
		return nil
	}
}

// WithDialTimeout overrides the socket connection deadline.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.WrapInvalid(
				fmt.Errorf("dial timeout %v is not positive", timeout),
				"Client", "WithDialTimeout", "validate option")
		}
		c.cfg.DialTimeout = timeout
		return nil
	}
}

// WithFormat selects the payload serialization for outbound frames.
// Inbound frames are decoded per their own format tag regardless.
func WithFormat(f frame.Format) Option {
	return func(c *Client) error {
		if f != frame.FormatJSON && f != frame.FormatBinary {
			return errors.WrapInvalid(
				fmt.Errorf("unknown format tag %d", uint8(f)),
				"Client", "WithFormat", "validate option")
		}
		c.format = f
		return nil
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			return errors.WrapInvalid(
				fmt.Errorf("logger is nil"),
				"Client", "WithLogger", "validate option")
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics wires the client to a metrics registry. The client records
// connection, frame, request, and push metrics on the registry's core
// metrics.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(c *Client) error {
		if registry == nil {
			return errors.WrapInvalid(
				fmt.Errorf("metrics registry is nil"),
				"Client", "WithMetrics", "validate option")
		}
		c.metrics = registry.CoreMetrics()
		return nil
	}
}

// WithConnectRetry retries the initial dial with backoff. Useful when the
// primitive starts before the engine has created its socket.
func WithConnectRetry(cfg retry.Config) Option {
	return func(c *Client) error {
		c.dialRetry = &cfg
		return nil
	}
}
