// Package testutil holds helpers shared by package tests.
package testutil

import "testing"

var nibblEnvVars = []string{
	"NIBBL_HISTORY_PATH",
	"NIBBL_COOLDOWN",
	"NIBBL_MAX_PRODUCTS",
	"NIBBL_MODEL",
	"NIBBL_TEMPERATURE",
	"NIBBL_TIMEOUT",
	"NIBBL_LOG_LEVEL",
	"OPENAI_BASE_URL",
	"OPENAI_API_KEY",
}

// ClearNibblEnv blanks every variable the config reads so the host
// environment cannot leak into a test. Empty values count as unset.
// Originals are restored when the test ends.
func ClearNibblEnv(t testing.TB) {
	t.Helper()
	for _, key := range nibblEnvVars {
		t.Setenv(key, "")
	}
}
