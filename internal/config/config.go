// Package config loads stanza.yaml.
//
// The file is optional. Every key has a default, and command-line flags
// override whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/stanza/internal/arrange"
)

// DefaultFile is the config file looked up in the working directory when
// no path is given.
const DefaultFile = "stanza.yaml"

// DefaultCollection is the collection path used when neither the config
// nor the command line names one.
const DefaultCollection = "src/data/poemsData.json"

// ErrUnsupportedVersion is returned for a config whose version is not 1.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// Config is the decoded stanza.yaml.
type Config struct {
	Version    int    `yaml:"version"`
	Collection string `yaml:"collection"`
	Journal    string `yaml:"journal"`
	Arrange    struct {
		MaxAttempts int     `yaml:"max_attempts"`
		RepairOnly  bool    `yaml:"repair_only"`
		Seed        *uint64 `yaml:"seed"`
	} `yaml:"arrange"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Version: 1}
}

// CollectionPath returns the configured collection, defaulting to
// DefaultCollection if not set.
func (c *Config) CollectionPath() string {
	if c.Collection == "" {
		return DefaultCollection
	}
	return c.Collection
}

// MaxAttempts returns the configured attempt bound, defaulting to
// arrange.DefaultMaxAttempts if not set.
func (c *Config) MaxAttempts() int {
	if c.Arrange.MaxAttempts <= 0 {
		return arrange.DefaultMaxAttempts
	}
	return c.Arrange.MaxAttempts
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates config bytes.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: 0 (empty config)", ErrUnsupportedVersion)
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version)
	}
	if cfg.Arrange.MaxAttempts < 0 {
		return nil, fmt.Errorf("arrange.max_attempts must be >= 0, got %d", cfg.Arrange.MaxAttempts)
	}
	return &cfg, nil
}

// Resolve loads the config for a command invocation. An explicit path
// must exist. With no path, DefaultFile is used when present and
// Default otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}
	return Load(DefaultFile)
}
