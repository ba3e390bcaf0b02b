package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/revenium/gemini-meter/internal/config"
)

// EventKind selects the body tag, scope and log attributes of an event.
type EventKind int

const (
	// EventAPIResponse mirrors the api_response record Gemini CLI emits itself.
	EventAPIResponse EventKind = iota
	// EventToolCall reports one tool invocation.
	EventToolCall
)

// String returns the body tag of the kind.
func (k EventKind) String() string {
	switch k {
	case EventAPIResponse:
		return "gemini_cli.api_response"
	case EventToolCall:
		return "tool.call"
	default:
		return "unknown"
	}
}

// Event fields shared by every kind and the constants that tag them.
const (
	ServiceName      = "gemini-cli"
	MiddlewareSource = "revenium-gemini-cli-sdk"

	// ConnectivityTestModel marks synthetic events sent by health checks.
	ConnectivityTestModel = "cli-connectivity-test"

	apiResponseScope = "gemini_cli"
	toolCallScope    = "tool_metering"
	toolCallVersion  = "0.1.0"

	unknownSession = "unknown"
)

// Attribution is the optional metadata copied into every event.
type Attribution struct {
	Email            string
	OrganizationName string
	ProductName      string
	CostMultiplier   *float64
}

// AttributionFrom extracts the attribution fields of a stored configuration.
func AttributionFrom(cfg *config.Config) Attribution {
	if cfg == nil {
		return Attribution{}
	}
	return Attribution{
		Email:            cfg.Email,
		OrganizationName: cfg.OrganizationName,
		ProductName:      cfg.ProductName,
		CostMultiplier:   cfg.CostMultiplier,
	}
}

// ToolMetadata describes a metered tool.
type ToolMetadata struct {
	Description string
	Category    string
	Version     string
	Tags        []string
}

// Event is the input of BuildPayload.
type Event struct {
	Kind        EventKind
	SessionID   string
	Credential  string
	Attribution Attribution

	// EventAPIResponse counters.
	Model               string
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
	CostUSD             float64

	// Duration applies to both kinds.
	Duration time.Duration

	// EventToolCall fields.
	ToolID       string
	Success      bool
	ErrorMessage string
	UserID       string
	Metadata     *ToolMetadata
}

// BuildPayload renders ev as a single-record payload.
//
// Timestamps come from the client clock in nanoseconds and are strictly
// increasing across calls on the same client, even when the clock stalls.
func (c *Client) BuildPayload(ev Event) (*Payload, error) {
	if ev.Credential == "" {
		return nil, ErrMissingCredential
	}

	var (
		scope *Scope
		attrs []KeyValue
	)
	switch ev.Kind {
	case EventToolCall:
		scope = &Scope{Name: toolCallScope, Version: toolCallVersion}
		attrs = toolCallAttributes(ev)
	default:
		scope = &Scope{Name: apiResponseScope, Version: c.version}
		attrs = apiResponseAttributes(ev)
	}

	record := LogRecord{
		TimeUnixNano: strconv.FormatInt(c.nextTimestamp(), 10),
		Body:         StringValue(ev.Kind.String()),
		Attributes:   attrs,
	}

	return &Payload{
		ResourceLogs: []ResourceLogs{{
			Resource:  &Resource{Attributes: resourceAttributes(ev)},
			ScopeLogs: []ScopeLogs{{Scope: scope, LogRecords: []LogRecord{record}}},
		}},
	}, nil
}

// nextTimestamp returns the clock reading, bumped past the last one handed out.
func (c *Client) nextTimestamp() int64 {
	now := c.clock.Now().UnixNano()
	for {
		last := c.lastStamp.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if c.lastStamp.CompareAndSwap(last, next) {
			return next
		}
	}
}

func resourceAttributes(ev Event) []KeyValue {
	multiplier := config.DefaultCostMultiplier
	if ev.Attribution.CostMultiplier != nil {
		multiplier = *ev.Attribution.CostMultiplier
	}

	attrs := []KeyValue{
		{Key: "service.name", Value: StringValue(ServiceName)},
		{Key: config.AttrAPIKey, Value: StringValue(ev.Credential)},
		{Key: config.AttrCostMultiplier, Value: StringValue(config.FormatCostMultiplier(multiplier))},
	}
	if ev.Kind == EventToolCall {
		attrs = append(attrs, KeyValue{Key: "middleware.source", Value: StringValue(MiddlewareSource)})
	}
	attrs = appendString(attrs, config.AttrEmail, ev.Attribution.Email)
	attrs = appendString(attrs, config.AttrOrganizationName, ev.Attribution.OrganizationName)
	attrs = appendString(attrs, config.AttrProductName, ev.Attribution.ProductName)
	return attrs
}

func apiResponseAttributes(ev Event) []KeyValue {
	model := ev.Model
	if model == "" {
		model = ConnectivityTestModel
	}

	attrs := []KeyValue{
		{Key: "session.id", Value: StringValue(sessionOrUnknown(ev.SessionID))},
		{Key: "model", Value: StringValue(model)},
		{Key: "input_tokens", Value: StringValue(formatInt(ev.InputTokens))},
		{Key: "output_tokens", Value: StringValue(formatInt(ev.OutputTokens))},
		{Key: "cache_read_tokens", Value: StringValue(formatInt(ev.CacheReadTokens))},
		{Key: "cache_creation_tokens", Value: StringValue(formatInt(ev.CacheCreationTokens))},
		{Key: "cost_usd", Value: StringValue(formatCost(ev.CostUSD))},
		{Key: "duration_ms", Value: StringValue(formatInt(ev.Duration.Milliseconds()))},
	}
	return appendString(attrs, config.AttrEmail, ev.Attribution.Email)
}

func toolCallAttributes(ev Event) []KeyValue {
	attrs := []KeyValue{
		{Key: "tool.id", Value: StringValue(ev.ToolID)},
		{Key: "session.id", Value: StringValue(sessionOrUnknown(ev.SessionID))},
		{Key: "duration_ms", Value: IntValue(ev.Duration.Milliseconds())},
		{Key: "success", Value: BoolValue(ev.Success)},
		{Key: "middleware.source", Value: StringValue(MiddlewareSource)},
	}
	attrs = appendString(attrs, "error.message", ev.ErrorMessage)
	attrs = appendString(attrs, "user.id", ev.UserID)
	attrs = appendString(attrs, config.AttrOrganizationName, ev.Attribution.OrganizationName)
	attrs = appendString(attrs, config.AttrProductName, ev.Attribution.ProductName)

	if md := ev.Metadata; md != nil {
		attrs = appendString(attrs, "tool.description", md.Description)
		attrs = appendString(attrs, "tool.category", md.Category)
		attrs = appendString(attrs, "tool.version", md.Version)
		attrs = appendString(attrs, "tool.tags", strings.Join(md.Tags, ","))
	}
	return attrs
}

func appendString(attrs []KeyValue, key, value string) []KeyValue {
	if value == "" {
		return attrs
	}
	return append(attrs, KeyValue{Key: key, Value: StringValue(value)})
}

func sessionOrUnknown(id string) string {
	if id == "" {
		return unknownSession
	}
	return id
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// formatCost always keeps a decimal point: 0 -> "0.0".
func formatCost(f float64) string {
	s := formatFloat(f)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
