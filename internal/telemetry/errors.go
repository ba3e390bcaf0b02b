package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// ErrMissingCredential is returned when an event is built without a credential.
// It indicates a caller bug rather than a runtime condition.
var ErrMissingCredential = errors.New("credential is required to build a telemetry payload")

// StatusError reports a non-2xx answer from the receiver.
type StatusError struct {
	StatusCode int

	// Body is the response body with the credential redacted.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("OTLP request failed: %d %s - %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Retryable reports whether the status is one Send retries.
func (e *StatusError) Retryable() bool {
	return isRetryableStatus(e.StatusCode)
}

// TransportError reports a request that never produced a response.
type TransportError struct {
	// Message is the redacted description shown to users.
	Message string

	// Timeout is set when the last attempt hit the per-attempt timeout.
	Timeout bool

	Err error
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func timeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Request timeout after %dms", timeout.Milliseconds())
}

var statusPattern = regexp.MustCompile(`OTLP request failed: (\d{3})`)

// StatusCodeOf returns the HTTP status carried by err, or 0.
//
// Typed errors are checked first; the message fallback only accepts the
// "OTLP request failed: NNN" prefix so port numbers or timestamps in other
// messages are never mistaken for a status.
func StatusCodeOf(err error) int {
	if err == nil {
		return 0
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}
