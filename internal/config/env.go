package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// applyEnvOverrides modifies config in place with environment variable values.
// Variables that are unset or empty leave the current value alone.
func applyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
