package service

import (
	"context"
	"strings"
	"time"

	"github.com/revenium/gemini-meter/internal/telemetry"
)

// ReportService reports a finished tool call as a tool.call event.
type ReportService struct {
	tracker *telemetry.Tracker
}

// NewReportService creates a report service sending through tracker.
func NewReportService(tracker *telemetry.Tracker) *ReportService {
	return &ReportService{tracker: tracker}
}

// ReportRequest describes the tool call.
type ReportRequest struct {
	ToolID           string
	SessionID        string
	UserID           string
	OrganizationName string
	ProductName      string
	Success          bool
	Duration         time.Duration
	ErrorMessage     string

	Description string
	Category    string
	Version     string
	Tags        []string
}

// Execute sends the event and reports whether the backend accepted it.
// Failures are logged by the tracker and never returned.
func (s *ReportService) Execute(ctx context.Context, req ReportRequest) bool {
	tc := telemetry.ToolContext{
		SessionID:        req.SessionID,
		UserID:           req.UserID,
		OrganizationName: req.OrganizationName,
		ProductName:      req.ProductName,
	}

	report := telemetry.ToolCallReport{
		Success:      req.Success,
		Duration:     req.Duration,
		ErrorMessage: req.ErrorMessage,
		Metadata:     metadataOf(req),
	}

	return s.tracker.ReportToolCall(ctx, tc, strings.TrimSpace(req.ToolID), report)
}

func metadataOf(req ReportRequest) *telemetry.ToolMetadata {
	if req.Description == "" && req.Category == "" && req.Version == "" && len(req.Tags) == 0 {
		return nil
	}
	return &telemetry.ToolMetadata{
		Description: req.Description,
		Category:    req.Category,
		Version:     req.Version,
		Tags:        req.Tags,
	}
}
