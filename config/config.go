package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Govcraft/emergent-primitives/errors"
)

// Environment variables read during the connection rendezvous. The engine
// sets both when it spawns a primitive process.
const (
	EnvSocket = "EMERGENT_SOCKET"
	EnvName   = "EMERGENT_NAME"
)

// DefaultSocketPath is used when EMERGENT_SOCKET is unset, matching the
// engine's default rendezvous point for locally started primitives.
const DefaultSocketPath = "/tmp/emergent.sock"

// DefaultRequestTimeout bounds correlated request/response round trips.
const DefaultRequestTimeout = 30 * time.Second

// DefaultDialTimeout bounds the initial socket connection attempt.
const DefaultDialTimeout = 5 * time.Second

// Config holds everything a client needs to reach the engine. Zero values
// are filled in by Validate, so a partially populated Config is usable.
type Config struct {
	// SocketPath is the filesystem path of the engine's Unix domain socket.
	SocketPath string `yaml:"socket_path" json:"socket_path"`

	// ClientName identifies this primitive to the engine. It becomes the
	// source of every published envelope.
	ClientName string `yaml:"client_name" json:"client_name"`

	// RequestTimeout bounds each correlated request round trip.
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`

	// DialTimeout bounds the initial connection attempt.
	DialTimeout time.Duration `yaml:"dial_timeout,omitempty" json:"dial_timeout,omitempty"`
}

// Default returns a Config with all defaults applied and no client name.
func Default() Config {
	return Config{
		SocketPath:     DefaultSocketPath,
		RequestTimeout: DefaultRequestTimeout,
		DialTimeout:    DefaultDialTimeout,
	}
}

// FromEnv builds a Config from the process environment. The engine sets
// EMERGENT_SOCKET and EMERGENT_NAME when spawning primitives; clientName
// falls back to the given default when EMERGENT_NAME is unset.
func FromEnv(defaultName string) Config {
	cfg := Default()

	if socket := os.Getenv(EnvSocket); socket != "" {
		cfg.SocketPath = socket
	}
	if name := os.Getenv(EnvName); name != "" {
		cfg.ClientName = name
	} else {
		cfg.ClientName = defaultName
	}

	return cfg
}

// LoadFile reads a YAML config file, then applies environment overrides on
// top. Environment always wins so engine-spawned primitives honor the
// rendezvous the engine chose.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapInvalid(err, "Config", "LoadFile",
			fmt.Sprintf("read config file %s", path))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapInvalid(err, "Config", "LoadFile",
			fmt.Sprintf("parse config file %s", path))
	}

	if socket := os.Getenv(EnvSocket); socket != "" {
		cfg.SocketPath = socket
	}
	if name := os.Getenv(EnvName); name != "" {
		cfg.ClientName = name
	}

	return cfg, nil
}

// Validate fills defaults for unset fields and rejects unusable values.
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		c.SocketPath = DefaultSocketPath
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}

	if c.ClientName == "" {
		return errors.WrapInvalid(
			fmt.Errorf("client name is empty"),
			"Config", "Validate", "client name required")
	}
	if strings.ContainsAny(c.ClientName, " \t\n") {
		return errors.WrapInvalid(
			fmt.Errorf("client name %q contains whitespace", c.ClientName),
			"Config", "Validate", "client name invalid")
	}

	return nil
}
