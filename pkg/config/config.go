// Package config loads truncsearch settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ChrisMcGann/TruncSearch/pkg/core"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "truncsearch.toml"

// Config represents the TOML configuration file.
type Config struct {
	Search SearchConfig `toml:"search"`
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
	Mods   ModsConfig   `toml:"mods"`
}

// SearchConfig holds defaults for search parameters not given on the command line.
type SearchConfig struct {
	Tolerance    float64 `toml:"tolerance"`
	Ignore       int     `toml:"ignore"`
	CapMass      float64 `toml:"cap_mass"`
	MaxNodes     int     `toml:"max_nodes"`
	TopN         int     `toml:"top_n"`
	MaxDeletions int     `toml:"max_deletions"`
}

// RunConfig holds batch execution settings.
type RunConfig struct {
	Threads int `toml:"threads"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ModsConfig points at an optional custom modification CSV.
type ModsConfig struct {
	CSV string `toml:"csv"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Tolerance: core.DefaultTolerance,
			CapMass:   core.DefaultCapMass,
		},
		Run: RunConfig{Threads: 1},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML config from path over the defaults. A missing file is
// an error only when required is set, i.e. the path was given explicitly.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to stat config: %w", err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values.
func (c *Config) Validate() error {
	if c.Search.Tolerance < 0 {
		return fmt.Errorf("search.tolerance must be non-negative")
	}
	if c.Search.Ignore < 0 {
		return fmt.Errorf("search.ignore must be non-negative")
	}
	if c.Search.MaxNodes < 0 || c.Search.TopN < 0 || c.Search.MaxDeletions < 0 {
		return fmt.Errorf("search limits must be non-negative")
	}
	if c.Run.Threads < 1 {
		return fmt.Errorf("run.threads must be at least 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
