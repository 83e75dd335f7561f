package api

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is the prefix of environment variables overriding ServerConfig,
// e.g. EVSIM_ADDR or EVSIM_MAX_CONCURRENT_RUNS. EVSIM_CORS_ORIGINS is
// comma separated.
const EnvPrefix = "EVSIM_"

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string        `json:"addr"`
	LogLevel          string        `json:"log_level"`
	Mode              string        `json:"mode"` // gin mode: debug, release or test
	PresetsPath       string        `json:"presets_path"`
	CORSOrigins       []string      `json:"cors_origins"`
	MaxConcurrentRuns int64         `json:"max_concurrent_runs"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout"`
}

// SetDefaults fills unset fields.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Mode == "" {
		c.Mode = "release"
	}
	if c.PresetsPath == "" {
		c.PresetsPath = "presets.yaml"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.MaxConcurrentRuns == 0 {
		c.MaxConcurrentRuns = 1
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Validate checks the configuration after defaults are applied.
func (c ServerConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("mode must be debug, release or test, got %q", c.Mode)
	}
	if c.MaxConcurrentRuns < 1 {
		return fmt.Errorf("max_concurrent_runs must be at least 1, got %d", c.MaxConcurrentRuns)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative, got %v", c.ShutdownTimeout)
	}
	return nil
}

// LoadServerConfig reads the optional YAML file at path, applies EVSIM_*
// environment overrides, then defaults, and validates the result.
func LoadServerConfig(path string) (*ServerConfig, error) {
	k := koanf.New(".")
	if path != "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "cors_origins" {
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
