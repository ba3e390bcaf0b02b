package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

// SetupService validates a configuration against the backend, persists it
// and hooks it into the shell profile.
type SetupService struct {
	store    ConfigStore
	profiles ProfileUpdater
	client   TelemetryClient
	detect   ShellDetector
	logger   logging.Logger
}

// NewSetupService creates a new setup service with dependency injection.
func NewSetupService(store ConfigStore, profiles ProfileUpdater, client TelemetryClient, logger logging.Logger) *SetupService {
	return &SetupService{
		store:    store,
		profiles: profiles,
		client:   client,
		detect:   shell.DetectShell,
		logger:   logging.OrNop(logger),
	}
}

// SetupRequest contains the values collected from flags and environment.
type SetupRequest struct {
	APIKey           string
	Email            string
	OrganizationName string
	ProductName      string
	CostMultiplier   *float64
	Endpoint         string // empty means config.DefaultEndpoint
	SkipShellUpdate  bool
}

// SetupResult contains the results of the setup operation.
type SetupResult struct {
	Config  *config.Config
	Health  telemetry.HealthResult
	Written *config.WriteResult

	// Shell is nil when the update was skipped or failed outright.
	Shell *shell.UpdateResult
	// ShellWarning is set when the profile could not be updated automatically.
	ShellWarning string
	// ManualInstructions is set together with ShellWarning.
	ManualInstructions string
}

// Execute performs the setup operation.
//
// Invalid input and a failed health check abort before anything is written.
// Shell profile problems never fail the setup: the configuration file is
// already in place and the result carries manual instructions instead.
func (s *SetupService) Execute(ctx context.Context, req SetupRequest) (*SetupResult, error) {
	cfg := normalizeRequest(req)

	if v := config.Validate(cfg); !v.Valid {
		return nil, &ValidationError{Errors: v.Errors}
	}

	// 1. Prove the credential works before persisting it
	health := s.client.CheckHealth(ctx, cfg.Endpoint, cfg.APIKey, telemetry.AttributionFrom(cfg))
	if !health.Healthy {
		return nil, &HealthCheckError{Result: health}
	}
	s.logger.Debug("API key validated", "latency", health.Latency)

	result := &SetupResult{Config: cfg, Health: health}

	// 2. Write both dialect files
	written, err := s.store.Write(cfg)
	if err != nil {
		return nil, fmt.Errorf("write configuration: %w", err)
	}
	result.Written = written

	if req.SkipShellUpdate {
		return result, nil
	}

	// 3. Source the file from the shell profile
	update, err := s.profiles.DetectAndUpdate(ctx)
	switch {
	case err != nil:
		s.logger.Warn("shell profile update failed", "error", err)
		result.ShellWarning = "Could not update shell profile automatically"
		result.ManualInstructions = s.profiles.ManualInstructions(s.detect(ctx).Shell)
	case !update.Success:
		result.Shell = update
		result.ShellWarning = update.Message
		result.ManualInstructions = s.profiles.ManualInstructions(update.Shell)
	default:
		result.Shell = update
	}

	return result, nil
}

// normalizeRequest trims the inputs and reduces the endpoint to its base URL.
func normalizeRequest(req SetupRequest) *config.Config {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}

	return &config.Config{
		APIKey:           strings.TrimSpace(req.APIKey),
		Endpoint:         config.BaseEndpoint(endpoint),
		Email:            strings.TrimSpace(req.Email),
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		ProductName:      strings.TrimSpace(req.ProductName),
		CostMultiplier:   req.CostMultiplier,
	}
}
