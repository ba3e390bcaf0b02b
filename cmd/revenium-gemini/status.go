package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/service"
	"github.com/revenium/gemini-meter/internal/shell"
)

func (a *app) newStatusCmd() *cobra.Command {
	var skipHealth bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check current configuration and endpoint connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStatus(cmd, skipHealth)
		},
	}
	cmd.Flags().BoolVar(&skipHealth, "skip-health-check", false, "do not contact the endpoint")

	return cmd
}

func (a *app) runStatus(cmd *cobra.Command, skipHealth bool) error {
	ctx := cmd.Context()
	detected := shell.DetectShell(ctx)

	store, err := a.newStore(detected.Shell)
	if err != nil {
		return err
	}

	detect := func(_ context.Context) *shell.DetectionResult { return detected }
	svc := service.NewStatusService(store, a.newClient(), detect, a.logger)

	a.println(titleStyle.Render("Revenium Gemini CLI Metering Status"))
	a.println()

	report, err := svc.Execute(ctx, service.StatusRequest{SkipHealthCheck: skipHealth})
	switch {
	case errors.Is(err, config.ErrNotFound):
		a.println(errorStyle.Render("Configuration not found"))
		a.println(mutedStyle.Render("Expected at: " + report.ConfigPath))
		a.println()
		a.println(warningStyle.Render("Run `revenium-gemini setup` to configure Gemini CLI metering."))
		return &exitError{Code: 1}
	case errors.Is(err, config.ErrUnparseable):
		a.println(successStyle.Render("Configuration file found"))
		a.println(mutedStyle.Render("  " + report.ConfigPath))
		a.println()
		a.println(errorStyle.Render("Could not parse configuration file"))
		a.println(warningStyle.Render("Run `revenium-gemini setup` to reconfigure."))
		return &exitError{Code: 1}
	case err != nil:
		return err
	}

	a.println(successStyle.Render("Configuration file found"))
	a.println(mutedStyle.Render("  " + report.ConfigPath))
	a.println()
	a.printConfig(report.Config)

	a.println()
	a.println(sectionStyle.Render("Environment:"))
	if report.EnvironmentLoaded {
		a.println(successStyle.Render("  Environment variables are loaded in current shell"))
	} else {
		a.println(warningStyle.Render("  Environment variables not loaded in current shell"))
		a.println(mutedStyle.Render("  Run: source " + report.ConfigPath))
	}
	a.println(field("Shell", report.Shell.String()))
	if report.ProfilePath != "" {
		a.println(field("Profile", report.ProfilePath))
	}
	a.println(field("Platform", a.platform.String()))

	if report.Health == nil {
		return nil
	}

	a.println()
	a.println(sectionStyle.Render("Endpoint Health:"))
	if report.Health.Healthy {
		a.println(successStyle.Render(fmt.Sprintf("  Endpoint healthy (%dms)", report.Health.Latency.Milliseconds())))
	} else {
		a.println(errorStyle.Render("  Endpoint unhealthy: ") + report.Health.Message)
	}

	return nil
}
