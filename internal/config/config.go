package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up in the working directory
const FileName = ".nibbl.yaml"

// Config holds all configuration for a nibbl run.
// It is immutable after creation via LoadConfig().
type Config struct {
	// HistoryPath is the review history document
	HistoryPath string `yaml:"history_path" env:"NIBBL_HISTORY_PATH"`

	// Selection controls which receipt products are offered for review
	Selection SelectionConfig `yaml:"selection"`

	// Generation configures the text generation service
	Generation GenerationConfig `yaml:"generation"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" env:"NIBBL_LOG_LEVEL"`
}

// SelectionConfig controls eligibility selection.
type SelectionConfig struct {
	// Cooldown is how long a reviewed product stays ineligible, as a Go
	// duration string
	Cooldown string `yaml:"cooldown" env:"NIBBL_COOLDOWN"`

	// MaxProducts caps the products reviewed per run (1-5)
	MaxProducts int `yaml:"max_products" env:"NIBBL_MAX_PRODUCTS"`
}

// GenerationConfig configures the chat-completions client.
type GenerationConfig struct {
	Model       string  `yaml:"model" env:"NIBBL_MODEL"`
	Temperature float64 `yaml:"temperature" env:"NIBBL_TEMPERATURE"`

	// BaseURL overrides the service endpoint. Empty uses the SDK default.
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`

	// APIKey is only read from the environment
	APIKey string `yaml:"-" env:"OPENAI_API_KEY"`

	// Timeout bounds a single generation request
	Timeout string `yaml:"timeout" env:"NIBBL_TIMEOUT"`
}

// CooldownDuration parses the cooldown as a Duration.
func (c *Config) CooldownDuration() (time.Duration, error) {
	return time.ParseDuration(c.Selection.Cooldown)
}

// TimeoutDuration parses the generation timeout as a Duration.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Generation.Timeout)
}

// LoadConfig loads configuration from dir.
// It applies defaults, then file values, then environment overrides,
// then validates. A missing config file is not an error. A relative
// history path is resolved against dir.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(dir, FileName)
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// Resolve relative paths
	if !filepath.IsAbs(cfg.HistoryPath) {
		cfg.HistoryPath = filepath.Join(dir, cfg.HistoryPath)
	}

	return cfg, nil
}
