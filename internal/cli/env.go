package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/RevCBH/nibbl/internal/config"
	"github.com/RevCBH/nibbl/internal/llm"
)

// runtime is what every command needs before doing work
type runtime struct {
	cfg    *config.Config
	logger *log.Entry
}

// loadRuntime reads .env and configuration from the working directory and
// configures logging for this invocation.
func (a *App) loadRuntime() (*runtime, error) {
	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	// Existing environment variables win over .env entries
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := configureLogging(cfg.LogLevel, a.verbose)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger}, nil
}

// configureLogging sets the global logrus level and format and returns an
// entry tagged with a fresh run id.
func configureLogging(level string, verbose bool) (*log.Entry, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("cannot parse log level: %w", err)
	}
	if verbose {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	// Add some millisecond precision to log timestamps
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	entry := log.WithField("run", uuid.NewString())
	entry.Debug("debug logging enabled")
	return entry, nil
}

// newOpenAIClient is the production ClientFactory
func newOpenAIClient(cfg *config.Config) (llm.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("generation timeout: %w", err)
	}
	return llm.NewOpenAIClient(llm.OpenAIConfig{
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Timeout:     timeout,
	}), nil
}
