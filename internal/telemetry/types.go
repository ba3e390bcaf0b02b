package telemetry

import "time"

// AnyValue is an OTLP attribute value. Exactly one field is set.
type AnyValue struct {
	StringValue *string  `json:"stringValue,omitempty"`
	IntValue    *int64   `json:"intValue,omitempty"`
	DoubleValue *float64 `json:"doubleValue,omitempty"`
	BoolValue   *bool    `json:"boolValue,omitempty"`
}

// String returns the value rendered as text, whichever field is set.
func (v AnyValue) String() string {
	switch {
	case v.StringValue != nil:
		return *v.StringValue
	case v.IntValue != nil:
		return formatInt(*v.IntValue)
	case v.DoubleValue != nil:
		return formatFloat(*v.DoubleValue)
	case v.BoolValue != nil:
		return formatBool(*v.BoolValue)
	}
	return ""
}

// StringValue wraps s.
func StringValue(s string) AnyValue { return AnyValue{StringValue: &s} }

// IntValue wraps i.
func IntValue(i int64) AnyValue { return AnyValue{IntValue: &i} }

// DoubleValue wraps f.
func DoubleValue(f float64) AnyValue { return AnyValue{DoubleValue: &f} }

// BoolValue wraps b.
func BoolValue(b bool) AnyValue { return AnyValue{BoolValue: &b} }

// KeyValue is a single attribute.
type KeyValue struct {
	Key   string   `json:"key"`
	Value AnyValue `json:"value"`
}

// Payload is the body posted to the logs receiver.
type Payload struct {
	ResourceLogs []ResourceLogs `json:"resourceLogs"`
}

// ResourceLogs groups scope logs under the attributes of the emitting resource.
type ResourceLogs struct {
	Resource  *Resource   `json:"resource,omitempty"`
	ScopeLogs []ScopeLogs `json:"scopeLogs"`
}

// Resource carries resource-scoped attributes, including the credential.
type Resource struct {
	Attributes []KeyValue `json:"attributes,omitempty"`
}

// ScopeLogs groups log records emitted by one instrumentation scope.
type ScopeLogs struct {
	Scope      *Scope      `json:"scope,omitempty"`
	LogRecords []LogRecord `json:"logRecords"`
}

// Scope names the instrumentation that produced the records.
type Scope struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LogRecord is one event.
type LogRecord struct {
	// TimeUnixNano is a decimal string; JSON numbers cannot hold it exactly.
	TimeUnixNano string     `json:"timeUnixNano,omitempty"`
	Body         AnyValue   `json:"body"`
	Attributes   []KeyValue `json:"attributes"`
}

// Response is the receiver's answer to an accepted payload.
type Response struct {
	ID              string `json:"id"`
	ResourceType    string `json:"resourceType"`
	ProcessedEvents int    `json:"processedEvents"`
	Created         string `json:"created"`

	// StatusCode is the HTTP status the payload was accepted with.
	StatusCode int `json:"-"`
}

// HealthResult summarizes a connectivity check. It is never accompanied by an error.
type HealthResult struct {
	Healthy bool

	// StatusCode is the HTTP status, or 0 when none was received.
	StatusCode int

	// Message is user-facing and credential-free.
	Message string

	Latency time.Duration
}
