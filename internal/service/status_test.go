package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
	"github.com/revenium/gemini-meter/internal/testutil"
)

func storedConfig() *config.Config {
	return &config.Config{
		APIKey:           testAPIKey,
		Endpoint:         "https://api.example.com",
		Email:            "dev@example.com",
		OrganizationName: "Acme",
	}
}

func TestStatusService_Execute(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	store := &mockStore{dir: env.ConfigDir, cfg: storedConfig(), envLoaded: true}
	client := &mockClient{health: healthy()}

	report, err := NewStatusService(store, client, fixedShell(shell.ShellZsh), nil).
		Execute(context.Background(), StatusRequest{})
	require.NoError(t, err)

	assert.True(t, report.ConfigFound)
	assert.True(t, report.EnvironmentLoaded)
	assert.Equal(t, filepath.Join(env.ConfigDir, "revenium.env"), report.ConfigPath)
	assert.Equal(t, shell.ShellZsh, report.Shell)
	assert.Equal(t, filepath.Join(env.Home, ".zshrc"), report.ProfilePath)
	require.NotNil(t, report.Config)
	assert.Equal(t, testAPIKey, report.Config.APIKey)
	require.NotNil(t, report.Health)
	assert.True(t, report.Health.Healthy)
	assert.Equal(t, []string{"https://api.example.com"}, client.healthCalls)
}

func TestStatusService_Execute_FishPaths(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	store := &mockStore{dir: env.ConfigDir, cfg: storedConfig()}
	report, err := NewStatusService(store, &mockClient{health: healthy()}, fixedShell(shell.ShellFish), nil).
		Execute(context.Background(), StatusRequest{SkipHealthCheck: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(env.ConfigDir, "revenium.fish"), report.ConfigPath)
	assert.Equal(t, filepath.Join(env.Home, ".config", "fish", "config.fish"), report.ProfilePath)
	assert.Nil(t, report.Health)
}

func TestStatusService_Execute_Unhealthy(t *testing.T) {
	testutil.SetupTestEnv(t)

	store := &mockStore{cfg: storedConfig()}
	client := &mockClient{health: telemetry.HealthResult{StatusCode: http.StatusServiceUnavailable, Message: "down"}}

	report, err := NewStatusService(store, client, fixedShell(shell.ShellBash), nil).
		Execute(context.Background(), StatusRequest{})
	require.NoError(t, err, "an unhealthy endpoint is part of the report")
	require.NotNil(t, report.Health)
	assert.False(t, report.Health.Healthy)
	assert.Equal(t, http.StatusServiceUnavailable, report.Health.StatusCode)
}

func TestStatusService_Execute_NoConfig(t *testing.T) {
	tests := []struct {
		name      string
		store     *mockStore
		wantErr   error
		wantFound bool
	}{
		{
			name:    "Missing",
			store:   &mockStore{},
			wantErr: config.ErrNotFound,
		},
		{
			name:      "Unparseable",
			store:     &mockStore{exists: true, loadErr: fmt.Errorf("parse: %w", config.ErrUnparseable)},
			wantErr:   config.ErrUnparseable,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.SetupTestEnv(t)
			client := &mockClient{health: healthy()}

			report, err := NewStatusService(tt.store, client, fixedShell(shell.ShellUnknown), nil).
				Execute(context.Background(), StatusRequest{})
			require.ErrorIs(t, err, tt.wantErr)
			require.NotNil(t, report)
			assert.Equal(t, tt.wantFound, report.ConfigFound)
			assert.Nil(t, report.Config)
			assert.Nil(t, report.Health)
			assert.Empty(t, report.ProfilePath)
			assert.Empty(t, client.healthCalls)
		})
	}
}
