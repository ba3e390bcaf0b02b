package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/service"
	"github.com/revenium/gemini-meter/internal/shell"
)

func (a *app) newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure Gemini CLI metering",
		Long: `Validate the API key against the endpoint, write the configuration
files and add a source line to your shell profile.`,
		Example: `  revenium-gemini setup --api-key hak_... --email you@example.com
  REVENIUM_API_KEY=hak_... revenium-gemini setup --skip-shell-update`,
		Args: cobra.NoArgs,
		RunE: a.runSetup,
	}

	cmd.Flags().StringP("api-key", "k", "", "Revenium API key (hak_...)")
	cmd.Flags().StringP("email", "e", "", "email for usage attribution")
	cmd.Flags().StringP("organization", "o", "", "organization name for cost attribution")
	cmd.Flags().StringP("product", "p", "", "product name for cost attribution")
	cmd.Flags().StringP("cost-multiplier", "c", "", "cost multiplier for pricing adjustments")
	cmd.Flags().String("endpoint", config.DefaultEndpoint, "Revenium API endpoint URL")
	cmd.Flags().Bool("skip-shell-update", false, "skip automatic shell profile update")

	return cmd
}

func (a *app) runSetup(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	costMultiplier, err := parseCostMultiplier(v.GetString("cost-multiplier"))
	if err != nil {
		return &exitError{Code: 1, Err: err}
	}

	ctx := cmd.Context()
	detected := shell.DetectShell(ctx)

	store, err := a.newStore(detected.Shell)
	if err != nil {
		return err
	}
	manager, err := shell.NewManager(shell.Config{ConfigDir: store.Dir()}, shell.WithLogger(a.logger))
	if err != nil {
		return err
	}

	a.println(titleStyle.Render("Revenium Gemini CLI Metering Setup"))
	a.println()
	a.println("Testing API key...")

	svc := service.NewSetupService(store, manager, a.newClient(), a.logger)
	result, err := svc.Execute(ctx, service.SetupRequest{
		APIKey:           v.GetString("api-key"),
		Email:            v.GetString("email"),
		OrganizationName: v.GetString("organization"),
		ProductName:      v.GetString("product"),
		CostMultiplier:   costMultiplier,
		Endpoint:         v.GetString("endpoint"),
		SkipShellUpdate:  v.GetBool("skip-shell-update"),
	})
	if err != nil {
		return &exitError{Code: 1, Err: err}
	}

	a.println(successStyle.Render(fmt.Sprintf("API key validated (%dms latency)", result.Health.Latency.Milliseconds())))
	a.println(successStyle.Render("Configuration written to ") +
		cmdStyle.Render(result.Written.POSIXPath) + " and " + cmdStyle.Render(result.Written.FishPath))

	switch {
	case result.ShellWarning != "":
		a.println(warningStyle.Render(result.ShellWarning))
		a.println()
		a.println(mutedStyle.Render("Manual setup:\n" + result.ManualInstructions))
	case result.Shell != nil:
		a.println(successStyle.Render(result.Shell.Message))
		if result.Shell.BackupPath != "" {
			a.println(mutedStyle.Render("  Backup: " + result.Shell.BackupPath))
		}
	}

	a.println()
	a.println(successStyle.Bold(true).Render("Setup complete!"))
	a.println()
	a.printConfig(result.Config)

	a.println()
	a.println(warningStyle.Bold(true).Render("Next steps:"))
	a.println("  1. Restart your terminal or run:")
	a.println(cmdStyle.Render("     source " + store.Path(detected.Shell.Dialect())))
	a.println("  2. Start using Gemini CLI - telemetry will be sent automatically")
	a.println("  3. Check your usage at " + dashboard)
	a.println()
	a.println(mutedStyle.Render("Run `revenium-gemini status` to verify the configuration at any time."))

	return nil
}

// parseCostMultiplier accepts an empty value as "not set".
func parseCostMultiplier(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil, fmt.Errorf("--cost-multiplier must be a valid positive number greater than 0")
	}
	return &v, nil
}
