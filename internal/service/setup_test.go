package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
	"github.com/revenium/gemini-meter/internal/testutil"
)

func healthy() telemetry.HealthResult {
	return telemetry.HealthResult{Healthy: true, StatusCode: http.StatusOK, Message: "Endpoint healthy. Processed 1 event(s)."}
}

func TestSetupService_Execute(t *testing.T) {
	store := &mockStore{dir: t.TempDir()}
	profiles := &mockProfiles{}
	client := &mockClient{health: healthy()}

	svc := NewSetupService(store, profiles, client, nil)
	result, err := svc.Execute(context.Background(), SetupRequest{
		APIKey:           "  " + testAPIKey + " ",
		Email:            "dev@example.com",
		OrganizationName: "  Acme, Inc. ",
		CostMultiplier:   config.Float64(1.5),
		Endpoint:         "https://api.example.com/meter/v2/otlp/",
	})
	require.NoError(t, err)

	require.Len(t, store.written, 1)
	written := store.written[0]
	assert.Equal(t, testAPIKey, written.APIKey)
	assert.Equal(t, "https://api.example.com", written.Endpoint)
	assert.Equal(t, "Acme, Inc.", written.OrganizationName)
	assert.Equal(t, 1.5, written.EffectiveCostMultiplier())

	assert.Equal(t, []string{"https://api.example.com"}, client.healthCalls)
	assert.Equal(t, 1, profiles.calls)
	require.NotNil(t, result.Shell)
	assert.True(t, result.Shell.Success)
	assert.Empty(t, result.ShellWarning)
	assert.Equal(t, store.Path(config.DialectFish), result.Written.FishPath)
}

func TestSetupService_Execute_DefaultEndpoint(t *testing.T) {
	store := &mockStore{dir: t.TempDir()}
	client := &mockClient{health: healthy()}

	_, err := NewSetupService(store, &mockProfiles{}, client, nil).Execute(context.Background(), SetupRequest{
		APIKey:          testAPIKey,
		SkipShellUpdate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultEndpoint, store.written[0].Endpoint)
}

func TestSetupService_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		req     SetupRequest
		wantErr string
	}{
		{
			name:    "Missing API key",
			req:     SetupRequest{},
			wantErr: "API key is required",
		},
		{
			name:    "Bad email",
			req:     SetupRequest{APIKey: testAPIKey, Email: "not-an-email"},
			wantErr: "Invalid email format",
		},
		{
			name:    "Zero cost multiplier",
			req:     SetupRequest{APIKey: testAPIKey, CostMultiplier: config.Float64(0)},
			wantErr: "Cost multiplier must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{dir: t.TempDir()}
			client := &mockClient{health: healthy()}

			_, err := NewSetupService(store, &mockProfiles{}, client, nil).Execute(context.Background(), tt.req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, strings.Join(verr.Errors, "\n"), tt.wantErr)
			assert.Empty(t, client.healthCalls, "health check must not run on invalid input")
			assert.Empty(t, store.written)
		})
	}
}

func TestSetupService_Execute_Unhealthy(t *testing.T) {
	store := &mockStore{dir: t.TempDir()}
	profiles := &mockProfiles{}
	client := &mockClient{health: telemetry.HealthResult{
		StatusCode: http.StatusUnauthorized,
		Message:    "OTLP request failed: 401 Unauthorized - bad key",
	}}

	_, err := NewSetupService(store, profiles, client, nil).Execute(context.Background(), SetupRequest{APIKey: testAPIKey})

	var herr *HealthCheckError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.Result.StatusCode)
	assert.Contains(t, err.Error(), "401")
	assert.Empty(t, store.written)
	assert.Zero(t, profiles.calls)
}

func TestSetupService_Execute_WriteFailure(t *testing.T) {
	store := &mockStore{dir: t.TempDir(), writeErr: errors.New("disk full")}
	profiles := &mockProfiles{}

	_, err := NewSetupService(store, profiles, &mockClient{health: healthy()}, nil).Execute(context.Background(), SetupRequest{APIKey: testAPIKey})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write configuration")
	assert.Zero(t, profiles.calls)
}

func TestSetupService_Execute_ShellProblems(t *testing.T) {
	tests := []struct {
		name        string
		update      func(ctx context.Context) (*shell.UpdateResult, error)
		wantWarning string
		wantManual  string
	}{
		{
			name: "Unknown shell",
			update: func(context.Context) (*shell.UpdateResult, error) {
				return &shell.UpdateResult{Success: false, Shell: shell.ShellUnknown, Message: "Could not detect shell type."}, nil
			},
			wantWarning: "Could not detect shell type.",
			wantManual:  "manual:unknown",
		},
		{
			name: "Update error",
			update: func(context.Context) (*shell.UpdateResult, error) {
				return nil, errors.New("permission denied")
			},
			wantWarning: "Could not update shell profile automatically",
			wantManual:  "manual:fish",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{dir: t.TempDir()}
			svc := NewSetupService(store, &mockProfiles{updateFunc: tt.update}, &mockClient{health: healthy()}, nil)
			svc.detect = fixedShell(shell.ShellFish)

			result, err := svc.Execute(context.Background(), SetupRequest{APIKey: testAPIKey})
			require.NoError(t, err)
			assert.Len(t, store.written, 1)
			assert.Equal(t, tt.wantWarning, result.ShellWarning)
			assert.Equal(t, tt.wantManual, result.ManualInstructions)
		})
	}
}

func TestSetupService_Execute_SkipShellUpdate(t *testing.T) {
	profiles := &mockProfiles{}

	result, err := NewSetupService(&mockStore{dir: t.TempDir()}, profiles, &mockClient{health: healthy()}, nil).
		Execute(context.Background(), SetupRequest{APIKey: testAPIKey, SkipShellUpdate: true})
	require.NoError(t, err)
	assert.Zero(t, profiles.calls)
	assert.Nil(t, result.Shell)
}

// TestSetupService_EndToEnd runs setup against real files and a fake receiver.
func TestSetupService_EndToEnd(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	t.Setenv("SHELL", "/bin/zsh")

	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewEncoder(w).Encode(telemetry.Response{ID: "evt_1", ProcessedEvents: 1})
	}))
	t.Cleanup(server.Close)

	store, err := config.NewStore(config.WithDir(env.ConfigDir))
	require.NoError(t, err)
	manager, err := shell.NewManager(shell.Config{ConfigDir: env.ConfigDir})
	require.NoError(t, err)

	svc := NewSetupService(store, manager, telemetry.NewClient(), nil)
	result, err := svc.Execute(context.Background(), SetupRequest{
		APIKey:      testAPIKey,
		Endpoint:    server.URL,
		ProductName: "gemini",
	})
	require.NoError(t, err)
	assert.Equal(t, testAPIKey, gotKey)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, server.URL, loaded.Endpoint)
	assert.Equal(t, "gemini", loaded.ProductName)

	require.NotNil(t, result.Shell)
	assert.Equal(t, filepath.Join(env.Home, ".zshrc"), result.Shell.ProfilePath)

	profile, err := os.ReadFile(result.Shell.ProfilePath)
	require.NoError(t, err)
	assert.Contains(t, string(profile), shell.MarkerStart)
	assert.Contains(t, string(profile), filepath.Join(env.ConfigDir, "revenium.env"))
}
