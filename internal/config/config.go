// Package config holds dosedoc configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	Sandbox SandboxConfig `yaml:"sandbox"`
	Logging LoggingConfig `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
}

// SandboxConfig configures script execution.
type SandboxConfig struct {
	// Timeout is the wall-clock limit for a single script invocation,
	// as a duration string ("5s", "500ms").
	Timeout string `yaml:"timeout"`

	// ExtraImports are stdlib packages allowed in author scripts beyond
	// the built-in allow list.
	ExtraImports []string `yaml:"extra_imports"`
}

// TimeoutDuration parses the timeout, falling back to the default on empty
// or unparsable values.
func (c SandboxConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// LoggingConfig configures the zap root logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// StoreConfig configures the summary history database.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Sandbox: SandboxConfig{Timeout: "5s"},
		Logging: LoggingConfig{Level: "info"},
		Store:   StoreConfig{DatabasePath: "dosedoc.db"},
	}
}

// Load reads a YAML config file, layering it over defaults. A missing file
// is not an error: defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Sandbox.Timeout != "" {
		if _, err := time.ParseDuration(c.Sandbox.Timeout); err != nil {
			return fmt.Errorf("sandbox.timeout: %w", err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug/info/warn/error", c.Logging.Level)
	}
	return nil
}
