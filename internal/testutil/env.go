// Package testutil isolates tests from the developer's home directory and
// shell environment.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// clearedVars are blanked so a developer's own metering setup never leaks
// into test expectations.
var clearedVars = []string{
	"SHELL",
	"GEMINI_TELEMETRY_ENABLED",
	"GEMINI_TELEMETRY_TARGET",
	"GEMINI_TELEMETRY_OTLP_ENDPOINT",
	"GEMINI_TELEMETRY_OTLP_PROTOCOL",
	"OTEL_RESOURCE_ATTRIBUTES",
	"REVENIUM_SUBSCRIBER_EMAIL",
	"REVENIUM_ORGANIZATION_NAME",
	"REVENIUM_PRODUCT_NAME",
	"REVENIUM_COST_MULTIPLIER",
	"REVENIUM_API_KEY",
	"REVENIUM_ENDPOINT",
}

// Env describes the isolated environment created by SetupTestEnv.
type Env struct {
	// Home is the temporary HOME directory.
	Home string
	// ConfigDir is Home/.gemini. It is not created.
	ConfigDir string
}

// SetupTestEnv points HOME at a fresh temporary directory and blanks SHELL
// and every variable the metering configuration exports.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up. Tests using it
// cannot run in parallel.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	for _, key := range clearedVars {
		t.Setenv(key, "")
	}

	return &Env{
		Home:      home,
		ConfigDir: filepath.Join(home, ".gemini"),
	}
}

// WriteFile creates path (relative to Home unless absolute) with content,
// creating parent directories.
func (e *Env) WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	if !filepath.IsAbs(path) {
		path = filepath.Join(e.Home, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path (relative to Home unless absolute).
func (e *Env) ReadFile(t *testing.T, path string) string {
	t.Helper()

	if !filepath.IsAbs(path) {
		path = filepath.Join(e.Home, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
