package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/nibbl/internal/testutil"
)

func TestEnvOverrides(t *testing.T) {
	testutil.ClearNibblEnv(t)
	t.Setenv("NIBBL_HISTORY_PATH", "/tmp/history.json")
	t.Setenv("NIBBL_COOLDOWN", "24h")
	t.Setenv("NIBBL_MODEL", "gpt-4o")
	t.Setenv("NIBBL_TEMPERATURE", "0.2")
	t.Setenv("NIBBL_TIMEOUT", "15s")
	t.Setenv("OPENAI_BASE_URL", "http://127.0.0.1:11434/v1")

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, "/tmp/history.json", cfg.HistoryPath)
	assert.Equal(t, "24h", cfg.Selection.Cooldown)
	assert.Equal(t, "gpt-4o", cfg.Generation.Model)
	assert.Equal(t, 0.2, cfg.Generation.Temperature)
	assert.Equal(t, "15s", cfg.Generation.Timeout)
	assert.Equal(t, "http://127.0.0.1:11434/v1", cfg.Generation.BaseURL)
}

func TestEnvOverrides_EmptyNoChange(t *testing.T) {
	testutil.ClearNibblEnv(t)

	cfg := &Config{
		HistoryPath: "original-history",
		Generation:  GenerationConfig{Model: "original-model", Temperature: 1.5},
		LogLevel:    "original-level",
	}

	require.NoError(t, applyEnvOverrides(cfg))

	assert.Equal(t, "original-history", cfg.HistoryPath)
	assert.Equal(t, "original-model", cfg.Generation.Model)
	assert.Equal(t, 1.5, cfg.Generation.Temperature)
	assert.Equal(t, "original-level", cfg.LogLevel)
}

func TestEnvOverrides_BadNumber(t *testing.T) {
	testutil.ClearNibblEnv(t)
	t.Setenv("NIBBL_MAX_PRODUCTS", "lots")

	err := applyEnvOverrides(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}
