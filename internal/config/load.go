package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads the base manifest at manifestPath, optionally merges an
// override manifest from overridePath (ignored when empty), applies
// defaults, validates the result, and returns the resolved Config.
//
// Errors are distinguished by which stage produced them: a missing or
// unreadable file surfaces the underlying *os.PathError, a malformed
// manifest surfaces the TOML decoder's error, and a structurally invalid
// but well-formed manifest surfaces a *ValidationError.
func Load(manifestPath, overridePath string) (*Config, error) {
	var base Config
	if _, err := toml.DecodeFile(manifestPath, &base); err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", manifestPath, err)
	}
	applyDefaults(&base)

	merged := base
	if overridePath != "" {
		var ov Override
		if _, err := toml.DecodeFile(overridePath, &ov); err != nil {
			return nil, fmt.Errorf("load override %s: %w", overridePath, err)
		}
		merged = Apply(base, &ov)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return &merged, nil
}

func applyDefaults(c *Config) {
	if c.StackingFeeUSTX == 0 {
		c.StackingFeeUSTX = DefaultStackingFeeUSTX
	}
}

// WriteManifest serializes cfg as TOML to path. It exists primarily so
// tests can round-trip a Config without hand-writing manifest fixtures.
func WriteManifest(path string, c *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}
