package config

// Locations and file modes of the persisted configuration.
const (
	// ConfigDirName is the Gemini CLI directory under the user's home.
	ConfigDirName = ".gemini"

	// ConfigBaseName is the file name shared by both dialect files.
	ConfigBaseName = "revenium"

	// ConfigDirMode restricts the configuration directory to its owner.
	ConfigDirMode = 0o700

	// ConfigFileMode restricts configuration files to owner read/write.
	ConfigFileMode = 0o600
)

// Endpoint defaults.
const (
	// DefaultEndpoint is the production metering API.
	DefaultEndpoint = "https://api.revenium.ai"

	// OTLPPath is appended to the base endpoint to reach the OTLP receiver.
	OTLPPath = "/meter/v2/otlp"

	// exportPathMarker identifies the start of an export sub-path inside a stored endpoint.
	exportPathMarker = "/meter/"
)

// Credential and attribution limits.
const (
	// APIKeyPrefix is required on every credential.
	APIKeyPrefix = "hak_"

	// APIKeyMinLength is the shortest credential accepted.
	APIKeyMinLength = 12

	// MaxEmailLength follows RFC 5321.
	MaxEmailLength = 254

	// MaxFreeTextLength bounds organization and product names.
	MaxFreeTextLength = 255

	// DefaultCostMultiplier is used when no multiplier is configured.
	DefaultCostMultiplier = 1.0
)

// Environment variable names read by Gemini CLI and by tooling that inspects the files.
const (
	EnvTelemetryEnabled  = "GEMINI_TELEMETRY_ENABLED"
	EnvTelemetryTarget   = "GEMINI_TELEMETRY_TARGET"
	EnvTelemetryEndpoint = "GEMINI_TELEMETRY_OTLP_ENDPOINT"
	EnvTelemetryProtocol = "GEMINI_TELEMETRY_OTLP_PROTOCOL"

	// EnvResourceAttributes carries the credential, since Gemini CLI cannot send OTLP headers.
	EnvResourceAttributes = "OTEL_RESOURCE_ATTRIBUTES"

	EnvSubscriberEmail  = "REVENIUM_SUBSCRIBER_EMAIL"
	EnvOrganizationName = "REVENIUM_ORGANIZATION_NAME"
	EnvProductName      = "REVENIUM_PRODUCT_NAME"
	EnvCostMultiplier   = "REVENIUM_COST_MULTIPLIER"

	// Legacy standalone names, read as fallbacks only.
	envOrganizationID = "REVENIUM_ORGANIZATION_ID"
	envProductID      = "REVENIUM_PRODUCT_ID"
)

// Values written for the Gemini CLI telemetry switches.
const (
	telemetryTarget   = "local"
	telemetryProtocol = "http"
)

// Resource attribute keys inside OTEL_RESOURCE_ATTRIBUTES.
const (
	AttrAPIKey           = "revenium.api_key" // #nosec G101 -- attribute name
	AttrEmail            = "user.email"
	AttrOrganizationName = "organization.name"
	AttrProductName      = "product.name"
	AttrCostMultiplier   = "cost_multiplier"

	attrOrganizationID = "organization.id"
	attrProductID      = "product.id"
)

// attributeOrder fixes the position of known keys in the composite string.
var attributeOrder = []string{
	AttrAPIKey,
	AttrEmail,
	AttrOrganizationName,
	AttrProductName,
	AttrCostMultiplier,
}
