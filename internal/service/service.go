// Package service provides the high-level flows behind the CLI commands:
// setup, status, test and tool reporting.
//
// Each flow is a small struct built with explicit dependencies, so tests can
// swap the configuration store, the shell profile updater or the telemetry
// client for fakes.
package service

import (
	"context"
	"fmt"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

// ConfigStore reads and writes the persisted configuration.
// *config.Store implements it.
type ConfigStore interface {
	Write(cfg *config.Config) (*config.WriteResult, error)
	Load() (*config.Config, error)
	Exists() bool
	IsEnvironmentLoaded() bool
	Path(d config.Dialect) string
}

// ProfileUpdater wires the configuration file into the user's shell profile.
// *shell.Manager implements it.
type ProfileUpdater interface {
	DetectAndUpdate(ctx context.Context) (*shell.UpdateResult, error)
	ManualInstructions(s shell.ShellType) string
}

// TelemetryClient sends events to the metering backend.
// *telemetry.Client implements it.
type TelemetryClient interface {
	CheckHealth(ctx context.Context, endpoint, credential string, attr telemetry.Attribution) telemetry.HealthResult
	TestPayload(sessionID, credential string, attr telemetry.Attribution) (*telemetry.Payload, error)
	Send(ctx context.Context, endpoint, credential string, payload *telemetry.Payload) (*telemetry.Response, error)
}

// ShellDetector reports the user's shell. shell.DetectShell satisfies it.
type ShellDetector func(ctx context.Context) *shell.DetectionResult

// loadConfig loads the stored configuration and distinguishes a missing file
// from one that could not be parsed.
func loadConfig(store ConfigStore) (*config.Config, error) {
	if !store.Exists() {
		return nil, config.ErrNotFound
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
