// Package config loads tool settings from an optional .glint.toml in
// the workspace root, with defaults for everything.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFileName = ".glint.toml"

// Config holds the tool's combined configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Index  IndexConfig  `toml:"index"`
	Server ServerConfig `toml:"server"`
}

// LogConfig controls the commonlog backend.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// IndexConfig controls workspace indexing.
type IndexConfig struct {
	Workers      int      `toml:"workers"`
	Exclude      []string `toml:"exclude"`
	PollInterval string   `toml:"poll_interval"`
}

// ServerConfig controls the language server.
type ServerConfig struct {
	Watch bool `toml:"watch"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Log:   LogConfig{Verbosity: 0},
		Index: IndexConfig{Workers: 4, PollInterval: "1s"},
		Server: ServerConfig{
			Watch: true,
		},
	}
}

// Load reads configuration from path, or from .glint.toml in dir when
// path is empty. A missing file yields the defaults.
func Load(path, dir string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		path = filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	cfg.validate()
	return cfg, nil
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()
	if c.Index.Workers <= 0 {
		c.Index.Workers = defaults.Index.Workers
	}
	if c.Index.PollInterval == "" {
		c.Index.PollInterval = defaults.Index.PollInterval
	}
}
