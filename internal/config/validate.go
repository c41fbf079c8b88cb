package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.HistoryPath) == "" {
		errs = append(errs, &ValidationError{
			Field:   "history_path",
			Value:   cfg.HistoryPath,
			Message: "must not be empty",
		})
	}

	if d, err := time.ParseDuration(cfg.Selection.Cooldown); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "selection.cooldown",
			Value:   cfg.Selection.Cooldown,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	} else if d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "selection.cooldown",
			Value:   cfg.Selection.Cooldown,
			Message: "must be positive",
		})
	}

	// The selector never returns more than five products
	if cfg.Selection.MaxProducts < 1 || cfg.Selection.MaxProducts > 5 {
		errs = append(errs, &ValidationError{
			Field:   "selection.max_products",
			Value:   cfg.Selection.MaxProducts,
			Message: "must be between 1 and 5",
		})
	}

	if strings.TrimSpace(cfg.Generation.Model) == "" {
		errs = append(errs, &ValidationError{
			Field:   "generation.model",
			Value:   cfg.Generation.Model,
			Message: "must not be empty",
		})
	}

	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 2 {
		errs = append(errs, &ValidationError{
			Field:   "generation.temperature",
			Value:   cfg.Generation.Temperature,
			Message: "must be between 0 and 2",
		})
	}

	if d, err := time.ParseDuration(cfg.Generation.Timeout); err != nil {
		errs = append(errs, &ValidationError{
			Field:   "generation.timeout",
			Value:   cfg.Generation.Timeout,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	} else if d <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "generation.timeout",
			Value:   cfg.Generation.Timeout,
			Message: "must be positive",
		})
	}

	// LogLevel is case-sensitive
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
