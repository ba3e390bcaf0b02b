package service

import (
	"context"
	"errors"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

// StatusService inspects the stored configuration, the current environment
// and the reachability of the endpoint.
type StatusService struct {
	store  ConfigStore
	client TelemetryClient
	detect ShellDetector
	logger logging.Logger
}

// NewStatusService creates a new status service with dependency injection.
func NewStatusService(store ConfigStore, client TelemetryClient, detect ShellDetector, logger logging.Logger) *StatusService {
	if detect == nil {
		detect = shell.DetectShell
	}
	return &StatusService{
		store:  store,
		client: client,
		detect: detect,
		logger: logging.OrNop(logger),
	}
}

// StatusRequest selects the optional parts of the report.
type StatusRequest struct {
	SkipHealthCheck bool
}

// StatusReport describes the local installation.
type StatusReport struct {
	// ConfigPath is the file the detected shell sources.
	ConfigPath string
	// ConfigFound is true when either dialect file exists.
	ConfigFound bool
	// Config is nil when the configuration is missing or unparseable.
	Config *config.Config

	// EnvironmentLoaded is true when the current process sees the exports.
	EnvironmentLoaded bool

	Shell       shell.ShellType
	ShellMethod string
	// ProfilePath is empty for unsupported shells.
	ProfilePath string

	// Health is nil when the check was skipped or no configuration exists.
	Health *telemetry.HealthResult
}

// Execute builds the report.
//
// A missing or unparseable configuration yields a partial report together
// with an error matching config.ErrNotFound or config.ErrUnparseable.
// An unhealthy endpoint is reported, not returned as an error.
func (s *StatusService) Execute(ctx context.Context, req StatusRequest) (*StatusReport, error) {
	detection := s.detect(ctx)

	report := &StatusReport{
		ConfigPath:        s.store.Path(detection.Shell.Dialect()),
		ConfigFound:       s.store.Exists(),
		EnvironmentLoaded: s.store.IsEnvironmentLoaded(),
		Shell:             detection.Shell,
		ShellMethod:       detection.Method,
	}

	if detection.Shell.IsValid() {
		if path, err := shell.GetRCFilePath(detection.Shell); err == nil {
			report.ProfilePath = path
		}
	}

	cfg, err := loadConfig(s.store)
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			s.logger.Debug("configuration present but not loadable", "error", err)
		}
		return report, err
	}
	report.Config = cfg

	if req.SkipHealthCheck {
		return report, nil
	}

	health := s.client.CheckHealth(ctx, cfg.Endpoint, cfg.APIKey, telemetry.AttributionFrom(cfg))
	report.Health = &health

	return report, nil
}
