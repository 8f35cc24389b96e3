package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Govcraft/emergent-primitives/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultSocketPath, cfg.SocketPath)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultDialTimeout, cfg.DialTimeout)
	assert.Empty(t, cfg.ClientName)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvSocket, "/run/emergent/engine.sock")
	t.Setenv(EnvName, "gps-reader")

	cfg := FromEnv("fallback")

	assert.Equal(t, "/run/emergent/engine.sock", cfg.SocketPath)
	assert.Equal(t, "gps-reader", cfg.ClientName)
}

func TestFromEnv_FallbackName(t *testing.T) {
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvName, "")

	cfg := FromEnv("fallback")

	assert.Equal(t, DefaultSocketPath, cfg.SocketPath)
	assert.Equal(t, "fallback", cfg.ClientName)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvSocket, "")
	t.Setenv(EnvName, "")

	path := filepath.Join(t.TempDir(), "primitive.yaml")
	content := `
socket_path: /var/run/engine.sock
client_name: order-handler
request_timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/run/engine.sock", cfg.SocketPath)
	assert.Equal(t, "order-handler", cfg.ClientName)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	// Unset fields keep defaults
	assert.Equal(t, DefaultDialTimeout, cfg.DialTimeout)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvSocket, "/run/engine-chosen.sock")
	t.Setenv(EnvName, "engine-chosen-name")

	path := filepath.Join(t.TempDir(), "primitive.yaml")
	content := `
socket_path: /var/run/file.sock
client_name: file-name
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/run/engine-chosen.sock", cfg.SocketPath)
	assert.Equal(t, "engine-chosen-name", cfg.ClientName)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("socket_path: [unclosed"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestValidate(t *testing.T) {
	cfg := Config{ClientName: "sink-1"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultSocketPath, cfg.SocketPath)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultDialTimeout, cfg.DialTimeout)
}

func TestValidate_RejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "has space", "tab\tname"} {
		cfg := Config{ClientName: name}
		err := cfg.Validate()
		require.Error(t, err, "name %q", name)
		assert.True(t, errors.IsInvalid(err))
	}
}
