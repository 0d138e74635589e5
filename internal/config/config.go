/*
Package config manages the TOML configuration of gapseek.

Values resolve in order: command-line flags, then the project config file
(.gapseek/config.toml), then built-in defaults.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Output formats accepted by [output] format.
var Formats = []string{"text", "tsv", "json", "msgpack"}

// Color modes accepted by [output] color.
var ColorModes = []string{"auto", "always", "never"}

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Output OutputConfig `toml:"output"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
}

// SearchConfig has matcher options.
type SearchConfig struct {
	MinSeed    int  `toml:"min_seed"`
	Dedup      bool `toml:"dedup"`
	Crosscheck bool `toml:"crosscheck"`
}

// OutputConfig controls how matches are printed.
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// StoreConfig controls run persistence.
type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MinSeed: 3,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
		Store: StoreConfig{
			Path: filepath.Join(".gapseek", "runs.db"),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Search.MinSeed < 1 {
		return fmt.Errorf("%w: search.min_seed must be >= 1, got %d", ErrInvalid, c.Search.MinSeed)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: output.format %q (want one of %v)", ErrInvalid, c.Output.Format, Formats)
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("%w: output.color %q (want one of %v)", ErrInvalid, c.Output.Color, ColorModes)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalid)
	}
	return nil
}

// Load reads configPath. A missing file yields the defaults; an unreadable
// or malformed file is recovered section by section where possible.
func Load(configPath string) (*Config, error) {
	if !fileExists(configPath) {
		log.Debugf("No config file at %s, using defaults", configPath)
		return DefaultConfig(), nil
	}
	config := DefaultConfig()
	if err := loadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// InitConfig writes the default config to configPath unless a file already
// exists there, and returns the config now in effect.
func InitConfig(configPath string) (*Config, bool, error) {
	if fileExists(configPath) {
		config, err := Load(configPath)
		return config, false, err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, false, fmt.Errorf("create config dir: %w", err)
	}
	config := DefaultConfig()
	if err := Save(config, configPath); err != nil {
		return nil, false, err
	}
	log.Debugf("Created default config file at: %s", configPath)
	return config, true, nil
}

// Save writes config to configPath as TOML.
func Save(config *Config, configPath string) error {
	return saveTOMLFile(config, configPath)
}

// tryPartialParse keeps every well-typed value of every known section and
// falls back to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := parseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := extractSection(tempConfig, "search"); ok {
		if val, ok := extractInt(section, "min_seed"); ok {
			config.Search.MinSeed = val
		}
		if val, ok := extractBool(section, "dedup"); ok {
			config.Search.Dedup = val
		}
		if val, ok := extractBool(section, "crosscheck"); ok {
			config.Search.Crosscheck = val
		}
	}
	if section, ok := extractSection(tempConfig, "output"); ok {
		if val, ok := extractString(section, "format"); ok {
			config.Output.Format = val
		}
		if val, ok := extractString(section, "color"); ok {
			config.Output.Color = val
		}
	}
	if section, ok := extractSection(tempConfig, "store"); ok {
		if val, ok := extractBool(section, "enabled"); ok {
			config.Store.Enabled = val
		}
		if val, ok := extractString(section, "path"); ok {
			config.Store.Path = val
		}
	}
	if section, ok := extractSection(tempConfig, "log"); ok {
		if val, ok := extractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	return config, nil
}
