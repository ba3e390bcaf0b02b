package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// emailPattern matches a conventional local@domain.tld address.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateAPIKey checks the hak_{tenant}_{key} credential shape.
func ValidateAPIKey(apiKey string) ValidationResult {
	if strings.TrimSpace(apiKey) == "" {
		return newResult([]string{"API key is required"})
	}

	var errs []string

	if !strings.HasPrefix(apiKey, APIKeyPrefix) {
		errs = append(errs, fmt.Sprintf("API key must start with %q", APIKeyPrefix))
	}

	if len(strings.Split(apiKey, "_")) < 3 {
		errs = append(errs, "API key format should be: hak_{tenant}_{key}")
	}

	if len(apiKey) < APIKeyMinLength {
		errs = append(errs, "API key appears too short")
	}

	return newResult(errs)
}

// ValidateEmail accepts an empty string, since the email is optional.
func ValidateEmail(email string) ValidationResult {
	if strings.TrimSpace(email) == "" {
		return newResult(nil)
	}

	var errs []string

	if !emailPattern.MatchString(email) {
		errs = append(errs, "Invalid email format")
	}

	if len(email) > MaxEmailLength {
		errs = append(errs, fmt.Sprintf("Email address is too long (max %d characters)", MaxEmailLength))
	}

	return newResult(errs)
}

// ValidateEndpoint requires an absolute http(s) URL without userinfo.
// Plain http is only allowed for localhost and loopback addresses.
func ValidateEndpoint(endpoint string) ValidationResult {
	if strings.TrimSpace(endpoint) == "" {
		return newResult([]string{"Endpoint URL is required"})
	}

	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return newResult([]string{"Invalid endpoint URL format"})
	}

	var errs []string

	switch u.Scheme {
	case "https":
	case "http":
		if !isLoopbackHost(u.Hostname()) {
			errs = append(errs, "Endpoint must use HTTPS (except for localhost)")
		}
	default:
		errs = append(errs, "Endpoint must use HTTP or HTTPS protocol")
	}

	// Userinfo would be echoed in terminal output and logs.
	if u.User != nil {
		errs = append(errs, "Endpoint must not contain embedded credentials (username:password)")
	}

	return newResult(errs)
}

func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// ValidateFreeText checks an optional attribution name. The caller decides
// whether an empty value is acceptable; an empty value is reported here.
func ValidateFreeText(field, value string, maxLen int) ValidationResult {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return newResult([]string{fmt.Sprintf("%s cannot be empty or whitespace-only", field)})
	}

	if len(trimmed) > maxLen {
		return newResult([]string{fmt.Sprintf("%s is too long (max %d characters)", field, maxLen)})
	}

	return newResult(nil)
}

// ValidateCostMultiplier requires a finite number greater than zero.
func ValidateCostMultiplier(v float64) ValidationResult {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return newResult([]string{"Cost multiplier must be a valid number"})
	}
	if v <= 0 {
		return newResult([]string{"Cost multiplier must be greater than 0"})
	}
	return newResult(nil)
}

// Validate checks a complete configuration and collects every violation.
func Validate(cfg *Config) ValidationResult {
	var errs []string

	errs = append(errs, ValidateAPIKey(cfg.APIKey).Errors...)
	errs = append(errs, ValidateEmail(cfg.Email).Errors...)
	errs = append(errs, ValidateEndpoint(cfg.Endpoint).Errors...)

	if cfg.OrganizationName != "" {
		errs = append(errs, ValidateFreeText("Organization name", cfg.OrganizationName, MaxFreeTextLength).Errors...)
	}
	if cfg.ProductName != "" {
		errs = append(errs, ValidateFreeText("Product name", cfg.ProductName, MaxFreeTextLength).Errors...)
	}
	if cfg.CostMultiplier != nil {
		errs = append(errs, ValidateCostMultiplier(*cfg.CostMultiplier).Errors...)
	}

	return newResult(errs)
}
