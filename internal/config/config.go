// Package config loads the optional reveal.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the config file name looked up in the project root.
const DefaultFile = "reveal.toml"

// Checker is the per-checker section of reveal.toml.
type Checker struct {
	// Config points the checker at its own config file, relative to the
	// project root. An empty string set explicitly means "run with no
	// config file at all" for checkers that otherwise auto-discover one.
	Config string `toml:"config"`

	// Disable turns the checker off entirely.
	Disable bool `toml:"disable"`
}

// Config is the parsed reveal.toml.
type Config struct {
	Checkers map[string]Checker `toml:"checkers"`

	// Remembers which checker sections set an explicit config key, so an
	// empty value can be told apart from an absent one.
	explicit map[string]bool
}

// Load parses a reveal.toml. A missing file yields an empty config; any
// other read or parse failure is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Checkers: map[string]Checker{}, explicit: map[string]bool{}}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	for name := range cfg.Checkers {
		if meta.IsDefined("checkers", name, "config") {
			cfg.explicit[name] = true
		}
	}

	return cfg, nil
}

// ExplicitConfig reports whether the named checker section carried an
// explicit config key, even an empty one.
func (c *Config) ExplicitConfig(name string) bool {
	return c.explicit[name]
}

// ResolvePath validates a checker config path: it must be relative to the
// project root, and the resolved file must exist.
func ResolvePath(root, path string) (string, error) {
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("path %q must be relative to the project root", path)
	}

	resolved := filepath.Join(root, path)

	if _, err := os.Stat(resolved); err != nil {
		return "", fmt.Errorf("path %q not found: %w", resolved, err)
	}

	return resolved, nil
}
