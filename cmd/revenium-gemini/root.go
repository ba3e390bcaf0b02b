package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
	"github.com/revenium/gemini-meter/internal/platform"
	"github.com/revenium/gemini-meter/internal/shell"
	"github.com/revenium/gemini-meter/internal/telemetry"
)

const (
	productName = "revenium-gemini"
	envPrefix   = "REVENIUM"
	dashboard   = "https://app.revenium.ai"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	verbose  bool
	logger   *log.Logger
	platform *platform.Info
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, errorStyle.Render("Error: ")+exitErr.Err.Error())
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, errorStyle.Render("Error: ")+err.Error())
	return 1
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   productName,
		Short: "Configure Gemini CLI telemetry export to Revenium",
		Long: titleStyle.Render(productName) + mutedStyle.Render(" - Gemini CLI metering for Revenium") + `

Gemini CLI exports OTLP telemetry but cannot send authentication headers.
` + productName + ` writes ~/.gemini/revenium.env and ~/.gemini/revenium.fish,
which carry the API key inside OTEL_RESOURCE_ATTRIBUTES, and sources them
from your shell profile.

Every flag can also be set through a REVENIUM_<FLAG> environment variable,
for example REVENIUM_API_KEY.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = logging.New(a.errOut, a.verbose)
			a.platform = a.detectPlatform(cmd.Context())
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(a.newSetupCmd())
	root.AddCommand(a.newStatusCmd())
	root.AddCommand(a.newTestCmd())
	root.AddCommand(a.newReportToolCmd())

	return root
}

// newViper binds the command's flags to REVENIUM_* environment variables.
// Flags set on the command line win over the environment.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

func (a *app) detectPlatform(ctx context.Context) *platform.Info {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		a.logger.Debug("platform detection failed", "error", err)
		return &platform.Info{OS: "unknown", Arch: "unknown"}
	}
	a.logger.Debug("detected platform", "platform", info.String())
	return info
}

// newClient builds the telemetry client for this invocation.
func (a *app) newClient() *telemetry.Client {
	return telemetry.NewClient(
		telemetry.WithLogger(a.logger),
		telemetry.WithVersion(Version),
		telemetry.WithUserAgent(a.platform.UserAgent(productName, Version)),
	)
}

// newStore builds a store that prefers the dialect of the user's shell.
func (a *app) newStore(detected shell.ShellType) (*config.Store, error) {
	return config.NewStore(
		config.WithLogger(a.logger),
		config.WithPreferredDialect(detected.Dialect()),
	)
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printConfig(cfg *config.Config) {
	a.println(sectionStyle.Render("Configuration:"))
	a.println(field("API Key", config.MaskAPIKey(cfg.APIKey)))
	a.println(field("Endpoint", cfg.Endpoint))
	if cfg.Email != "" {
		a.println(field("Email", config.MaskEmail(cfg.Email)))
	}
	if cfg.OrganizationName != "" {
		a.println(field("Organization", cfg.OrganizationName))
	}
	if cfg.ProductName != "" {
		a.println(field("Product", cfg.ProductName))
	}
	if cfg.CostMultiplier != nil {
		a.println(field("Cost Multiplier", config.FormatCostMultiplier(*cfg.CostMultiplier)))
	}
}
