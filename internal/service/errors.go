package service

import (
	"strings"

	"github.com/revenium/gemini-meter/internal/telemetry"
)

// ValidationError lists every invalid setup input.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Errors, "; ")
}

// HealthCheckError reports a credential or endpoint rejected during setup.
type HealthCheckError struct {
	Result telemetry.HealthResult
}

func (e *HealthCheckError) Error() string {
	return "API key validation failed: " + e.Result.Message
}
