package service

import (
	"context"
	"path/filepath"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

const testAPIKey = "hak_tenant_abc123xyz"

// mockStore implements ConfigStore for testing.
type mockStore struct {
	dir       string
	cfg       *config.Config
	loadErr   error
	writeErr  error
	exists    bool
	envLoaded bool

	written []*config.Config
}

func (m *mockStore) Write(cfg *config.Config) (*config.WriteResult, error) {
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.written = append(m.written, cfg)
	return &config.WriteResult{
		POSIXPath: m.Path(config.DialectPOSIX),
		FishPath:  m.Path(config.DialectFish),
	}, nil
}

func (m *mockStore) Load() (*config.Config, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.cfg == nil {
		return nil, config.ErrNotFound
	}
	return m.cfg, nil
}

func (m *mockStore) Exists() bool {
	return m.exists || m.cfg != nil
}

func (m *mockStore) IsEnvironmentLoaded() bool {
	return m.envLoaded
}

func (m *mockStore) Path(d config.Dialect) string {
	return filepath.Join(m.dir, "revenium"+d.Extension())
}

// mockProfiles implements ProfileUpdater for testing.
type mockProfiles struct {
	updateFunc func(ctx context.Context) (*shell.UpdateResult, error)
	calls      int
}

func (m *mockProfiles) DetectAndUpdate(ctx context.Context) (*shell.UpdateResult, error) {
	m.calls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx)
	}
	return &shell.UpdateResult{Success: true, Shell: shell.ShellZsh, ProfilePath: "/home/u/.zshrc"}, nil
}

func (m *mockProfiles) ManualInstructions(s shell.ShellType) string {
	return "manual:" + s.String()
}

// mockClient implements TelemetryClient for testing.
type mockClient struct {
	health  telemetry.HealthResult
	resp    *telemetry.Response
	sendErr error

	healthCalls []string
	sent        []*telemetry.Payload
}

func (m *mockClient) CheckHealth(_ context.Context, endpoint, _ string, _ telemetry.Attribution) telemetry.HealthResult {
	m.healthCalls = append(m.healthCalls, endpoint)
	return m.health
}

func (m *mockClient) TestPayload(sessionID, credential string, attr telemetry.Attribution) (*telemetry.Payload, error) {
	return telemetry.NewClient().TestPayload(sessionID, credential, attr)
}

func (m *mockClient) Send(_ context.Context, _, _ string, payload *telemetry.Payload) (*telemetry.Response, error) {
	m.sent = append(m.sent, payload)
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return m.resp, nil
}

func fixedShell(s shell.ShellType) ShellDetector {
	return func(context.Context) *shell.DetectionResult {
		return &shell.DetectionResult{Shell: s, Method: shell.MethodEnv}
	}
}
