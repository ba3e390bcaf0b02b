package config

import (
	"errors"
	"strconv"
)

// Config is the persisted metering configuration.
type Config struct {
	// APIKey authenticates telemetry with the metering backend.
	APIKey string

	// Endpoint is the base URL of the metering API, without the OTLP path.
	Endpoint string

	// Email attributes usage to a subscriber.
	Email string

	// OrganizationName attributes costs to a customer or company.
	OrganizationName string

	// ProductName attributes costs to a product or project.
	ProductName string

	// CostMultiplier adjusts reported costs. Nil means DefaultCostMultiplier.
	CostMultiplier *float64
}

// EffectiveCostMultiplier returns the configured multiplier or the default.
func (c *Config) EffectiveCostMultiplier() float64 {
	if c.CostMultiplier == nil {
		return DefaultCostMultiplier
	}
	return *c.CostMultiplier
}

// FormatCostMultiplier renders a multiplier the way it is written to disk.
func FormatCostMultiplier(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Float64 returns a pointer to v. Handy for CostMultiplier literals.
func Float64(v float64) *float64 {
	return &v
}

// ValidationResult lists every rule an input violated.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func newResult(errs []string) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// WriteResult reports where Write put both dialect files.
type WriteResult struct {
	POSIXPath string
	FishPath  string
}

var (
	// ErrNotFound means neither dialect file exists.
	ErrNotFound = errors.New("configuration not found")

	// ErrUnparseable means a configuration file exists but no credential could be recovered from it.
	ErrUnparseable = errors.New("configuration present but unparseable")
)

// IsAbsent reports whether err means "no usable configuration".
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnparseable)
}
