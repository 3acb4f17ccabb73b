// Package config loads the tool configuration from a YAML file.
//
// Everything has a working default: with no file at all the tool uses a
// database under the user's home directory, no auth token, and the stock
// rate limit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location when set.
const EnvConfigPath = "REWIND_CONFIG"

// RateLimitConfig overrides the outbound command budget.
type RateLimitConfig struct {
	MaxCalls int `yaml:"max_calls"`
	WindowMS int `yaml:"window_ms"`
}

// Window returns the configured window as a duration, zero when unset.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// Config holds the user-facing settings.
type Config struct {
	// DatabasePath locates the SQLite ledger file.
	DatabasePath string `yaml:"database_path"`
	// AuthToken is the Things URL-scheme auth token, required by Things
	// for update commands.
	AuthToken string `yaml:"auth_token"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// DefaultPath returns the default config file location
// (~/.rewind/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rewind", "config.yaml")
	}
	return filepath.Join(home, ".rewind", "config.yaml")
}

// ResolvePath returns the config path from the environment or the default.
func ResolvePath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath()
}

// DefaultDatabasePath returns where the ledger lives when the config does
// not say otherwise (~/.rewind/snapshots.db).
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".rewind", "snapshots.db")
	}
	return filepath.Join(home, ".rewind", "snapshots.db")
}

// Load reads the config file at path. A missing file is not an error -
// defaults apply; a present but malformed file is.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath()
	}
}
