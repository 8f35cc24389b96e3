// Package config resolves how a primitive finds and identifies itself to
// the Emergent engine.
//
// Resolution order is defaults, then an optional YAML file, then the
// EMERGENT_SOCKET and EMERGENT_NAME environment variables. Environment
// always wins: when the engine spawns a primitive it sets both variables,
// and the primitive must honor the rendezvous the engine chose regardless
// of local configuration.
//
// Typical usage inside a primitive:
//
//	cfg := config.FromEnv("gps-reader")
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Or with a config file:
//
//	cfg, err := config.LoadFile("primitive.yaml")
package config
