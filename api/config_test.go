package api

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, "presets.yaml", cfg.PresetsPath)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(1), cfg.MaxConcurrentRuns)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadServerConfig_FileThenEnv(t *testing.T) {
	// GIVEN a config file and environment overrides
	path := writeFile(t, "server.yaml", `
addr: ":9000"
log_level: debug
max_concurrent_runs: 2
shutdown_timeout: 10s
cors_origins:
  - http://a.local
`)
	t.Setenv("EVSIM_ADDR", ":9100")
	t.Setenv("EVSIM_CORS_ORIGINS", "http://b.local,http://c.local")

	// WHEN loaded
	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)

	// THEN the environment wins over the file, and the file over defaults
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(2), cfg.MaxConcurrentRuns)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://b.local", "http://c.local"}, cfg.CORSOrigins)
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level": "log_level: loud\n",
		"mode":      "mode: fast\n",
		"runs":      "max_concurrent_runs: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadServerConfig(writeFile(t, "server.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestLoadServerConfig_UnsupportedFormat(t *testing.T) {
	_, err := LoadServerConfig(writeFile(t, "server.toml", "addr = ':1'\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestNewServer_MissingPresetsStillServes(t *testing.T) {
	cfg := &ServerConfig{PresetsPath: filepath.Join(t.TempDir(), "missing.yaml"), Mode: "test"}
	cfg.SetDefaults()

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
