package service

import (
	"context"
	"fmt"
	"time"

	"github.com/revenium/gemini-meter/internal/clock"
	"github.com/revenium/gemini-meter/internal/logging"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

// TestService sends one synthetic api_response event with the stored
// configuration, proving the whole path from file to backend.
type TestService struct {
	store  ConfigStore
	client TelemetryClient
	clock  clock.Clock
	logger logging.Logger
}

// NewTestService creates a new test service with dependency injection.
func NewTestService(store ConfigStore, client TelemetryClient, clk clock.Clock, logger logging.Logger) *TestService {
	return &TestService{
		store:  store,
		client: client,
		clock:  clock.OrReal(clk),
		logger: logging.OrNop(logger),
	}
}

// TestResult contains the results of the test operation.
type TestResult struct {
	SessionID string
	Payload   *telemetry.Payload
	Response  *telemetry.Response
	Latency   time.Duration
}

// Execute builds and sends the test event.
//
// When the payload was built but sending failed, the partial result is
// returned together with the error so callers can still show the payload.
func (s *TestService) Execute(ctx context.Context) (*TestResult, error) {
	cfg, err := loadConfig(s.store)
	if err != nil {
		return nil, err
	}

	result := &TestResult{SessionID: telemetry.NewSessionID(s.clock)}

	result.Payload, err = s.client.TestPayload(result.SessionID, cfg.APIKey, telemetry.AttributionFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("build test payload: %w", err)
	}

	start := s.clock.Now()
	resp, err := s.client.Send(ctx, cfg.Endpoint, cfg.APIKey, result.Payload)
	result.Latency = s.clock.Now().Sub(start)
	if err != nil {
		return result, fmt.Errorf("send test event: %w", err)
	}
	result.Response = resp

	s.logger.Debug("test event accepted", "id", resp.ID, "session", result.SessionID)
	return result, nil
}
