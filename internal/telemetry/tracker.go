package telemetry

import (
	"context"
	"time"

	"github.com/revenium/gemini-meter/internal/clock"
	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
)

// ToolContext carries the per-call identity of a metered tool invocation.
// Empty Endpoint or APIKey fall back to the stored configuration.
type ToolContext struct {
	SessionID        string
	UserID           string
	OrganizationName string
	ProductName      string
	APIKey           string
	Endpoint         string
}

// ToolCallReport describes a tool call that already finished.
type ToolCallReport struct {
	Success      bool
	Duration     time.Duration
	ErrorMessage string
	Metadata     *ToolMetadata
}

// ConfigLoader supplies the stored configuration. *config.Store implements it.
type ConfigLoader interface {
	Load() (*config.Config, error)
}

// Tracker reports tool.call events. Reporting is best-effort: failures are
// logged and never returned to the metered code.
type Tracker struct {
	client *Client
	loader ConfigLoader
	logger logging.Logger
	clock  clock.Clock
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithConfigLoader sets the fallback source of endpoint and credential.
func WithConfigLoader(l ConfigLoader) TrackerOption {
	return func(t *Tracker) {
		t.loader = l
	}
}

// WithTrackerLogger sets the logger for reporting failures.
func WithTrackerLogger(l logging.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logging.OrNop(l)
	}
}

// WithTrackerClock sets the clock used to measure MeterTool durations.
func WithTrackerClock(c clock.Clock) TrackerOption {
	return func(t *Tracker) {
		t.clock = clock.OrReal(c)
	}
}

// NewTracker creates a Tracker sending through client.
func NewTracker(client *Client, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		client: client,
		logger: logging.Nop(),
		clock:  clock.Real{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MeterTool runs fn, reports its duration and outcome, and returns fn's
// results unchanged.
func MeterTool[T any](ctx context.Context, t *Tracker, tc ToolContext, toolID string, md *ToolMetadata, fn func(context.Context) (T, error)) (T, error) {
	start := t.clock.Now()
	result, err := fn(ctx)

	report := ToolCallReport{
		Success:  err == nil,
		Duration: t.clock.Now().Sub(start),
		Metadata: md,
	}
	if err != nil {
		report.ErrorMessage = err.Error()
	}
	t.ReportToolCall(ctx, tc, toolID, report)

	return result, err
}

// ReportToolCall sends a tool.call event for a finished call. It reports
// whether the event was accepted.
func (t *Tracker) ReportToolCall(ctx context.Context, tc ToolContext, toolID string, report ToolCallReport) bool {
	endpoint, credential, attr := t.resolve(tc)
	if endpoint == "" || credential == "" {
		t.logger.Debug("tool metering skipped: not configured", "tool", toolID)
		return false
	}

	payload, err := t.client.BuildPayload(Event{
		Kind:         EventToolCall,
		SessionID:    tc.SessionID,
		Credential:   credential,
		Attribution:  attr,
		Duration:     report.Duration,
		ToolID:       toolID,
		Success:      report.Success,
		ErrorMessage: report.ErrorMessage,
		UserID:       tc.UserID,
		Metadata:     report.Metadata,
	})
	if err == nil {
		_, err = t.client.Send(ctx, endpoint, credential, payload)
	}
	if err != nil {
		t.logger.Warn("tool metering failed", "tool", toolID, "error", config.RedactSecret(err.Error(), credential))
		return false
	}
	return true
}

// resolve fills the gaps of tc from the stored configuration.
func (t *Tracker) resolve(tc ToolContext) (string, string, Attribution) {
	attr := Attribution{OrganizationName: tc.OrganizationName, ProductName: tc.ProductName}
	endpoint, credential := tc.Endpoint, tc.APIKey

	if (endpoint == "" || credential == "") && t.loader != nil {
		cfg, err := t.loader.Load()
		if err != nil {
			if !config.IsAbsent(err) {
				t.logger.Warn("load configuration for tool metering", "error", err)
			}
			return endpoint, credential, attr
		}
		if endpoint == "" {
			endpoint = cfg.Endpoint
		}
		if credential == "" {
			credential = cfg.APIKey
		}
		attr.CostMultiplier = cfg.CostMultiplier
	}

	return endpoint, credential, attr
}
