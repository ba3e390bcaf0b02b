package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revenium/gemini-meter/internal/service"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

func (a *app) newReportToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report-tool",
		Short: "Report a finished tool call as a tool.call event",
		Long: `Report one tool invocation to Revenium, for use from hooks and wrapper
scripts. Endpoint and API key come from the stored configuration.`,
		Example: `  revenium-gemini report-tool --tool-id web_search --duration 1.2s --session-id "$SESSION"
  revenium-gemini report-tool --tool-id shell --success=false --error "exit status 2"`,
		Args: cobra.NoArgs,
		RunE: a.runReportTool,
	}

	cmd.Flags().String("tool-id", "", "identifier of the tool (required)")
	cmd.Flags().String("session-id", "", "session the call belongs to")
	cmd.Flags().String("user-id", "", "user who triggered the call")
	cmd.Flags().StringP("organization", "o", "", "organization name for cost attribution")
	cmd.Flags().StringP("product", "p", "", "product name for cost attribution")
	cmd.Flags().Bool("success", true, "whether the call succeeded")
	cmd.Flags().Duration("duration", 0, "how long the call took")
	cmd.Flags().String("error", "", "error message of a failed call")
	cmd.Flags().String("description", "", "tool description")
	cmd.Flags().String("category", "", "tool category")
	cmd.Flags().String("tool-version", "", "tool version")
	cmd.Flags().StringSlice("tags", nil, "comma-separated tool tags")

	return cmd
}

func (a *app) runReportTool(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	toolID := strings.TrimSpace(v.GetString("tool-id"))
	if toolID == "" {
		return &exitError{Code: 1, Err: errors.New("--tool-id is required")}
	}

	ctx := cmd.Context()
	store, err := a.newStore(shell.DetectShell(ctx).Shell)
	if err != nil {
		return err
	}

	tracker := telemetry.NewTracker(a.newClient(),
		telemetry.WithConfigLoader(store),
		telemetry.WithTrackerLogger(a.logger),
	)

	ok := service.NewReportService(tracker).Execute(ctx, service.ReportRequest{
		ToolID:           toolID,
		SessionID:        v.GetString("session-id"),
		UserID:           v.GetString("user-id"),
		OrganizationName: v.GetString("organization"),
		ProductName:      v.GetString("product"),
		Success:          v.GetBool("success"),
		Duration:         v.GetDuration("duration"),
		ErrorMessage:     strings.TrimSpace(v.GetString("error")),
		Description:      v.GetString("description"),
		Category:         v.GetString("category"),
		Version:          v.GetString("tool-version"),
		Tags:             v.GetStringSlice("tags"),
	})
	if !ok {
		a.println(warningStyle.Render("Tool call was not reported"))
		a.println(mutedStyle.Render("Run with --verbose for details, or `revenium-gemini status` to check the configuration."))
		return &exitError{Code: 1}
	}

	a.println(successStyle.Render("Tool call reported"))
	return nil
}
