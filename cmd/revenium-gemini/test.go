package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revenium/gemini-meter/internal/clock"
	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/service"
	"github.com/revenium/gemini-meter/internal/shell"
)

func (a *app) newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test metric to verify the integration",
		Long: `Send one synthetic api_response event with the stored configuration.
With --verbose the payload is printed before it is sent.`,
		Args: cobra.NoArgs,
		RunE: a.runTest,
	}
}

func (a *app) runTest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := a.newStore(shell.DetectShell(ctx).Shell)
	if err != nil {
		return err
	}

	a.println(titleStyle.Render("Revenium Gemini CLI Metering Test"))
	a.println()

	svc := service.NewTestService(store, a.newClient(), clock.Real{}, a.logger)
	result, err := svc.Execute(ctx)
	if config.IsAbsent(err) {
		a.println(errorStyle.Render("Configuration not found"))
		a.println(warningStyle.Render("Run `revenium-gemini setup` first to configure the integration."))
		return &exitError{Code: 1}
	}

	if result != nil && a.verbose {
		body, jerr := json.MarshalIndent(result.Payload, "", "  ")
		if jerr == nil {
			a.println(mutedStyle.Render("Test payload:"))
			a.println(mutedStyle.Render(string(body)))
			a.println()
		}
	}

	if err != nil {
		a.println(errorStyle.Render("Failed to send test metric"))
		a.println()
		a.println(warningStyle.Render("Troubleshooting:"))
		a.println("  1. Verify your API key is correct")
		a.println("  2. Check the endpoint URL")
		a.println("  3. Ensure you have network connectivity")
		a.println("  4. Run `revenium-gemini status` for more details")
		return &exitError{Code: 1, Err: err}
	}

	resp := result.Response
	a.println(successStyle.Render(fmt.Sprintf("Test metric sent successfully (%dms)", result.Latency.Milliseconds())))
	a.println()
	a.println(sectionStyle.Render("Response:"))
	a.println(field("ID", resp.ID))
	a.println(field("Resource Type", resp.ResourceType))
	a.println(field("Processed", fmt.Sprintf("%d event(s)", resp.ProcessedEvents)))
	a.println(field("Created", resp.Created))
	a.println()
	a.println(successStyle.Bold(true).Render("Integration is working correctly!"))
	a.println()
	a.println(mutedStyle.Render("Note: This test metric uses session ID: " + result.SessionID))
	a.println(mutedStyle.Render("You can verify it in the Revenium dashboard at " + dashboard))

	return nil
}
