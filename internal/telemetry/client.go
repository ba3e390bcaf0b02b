package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/revenium/gemini-meter/internal/clock"
	"github.com/revenium/gemini-meter/internal/config"
	"github.com/revenium/gemini-meter/internal/logging"
)

const (
	// MaxAttempts bounds Send, counting the first try.
	MaxAttempts = 3
	// DefaultRetryDelay is multiplied by the attempt number between attempts.
	DefaultRetryDelay = time.Second
	// DefaultTimeout bounds each attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultVersion is reported when the build carries no version.
	DefaultVersion = "dev"

	logsPath = "/v1/logs"

	// maxErrorBody caps how much of a failed response is quoted in errors.
	maxErrorBody = 64 << 10
)

// Client sends events to the logs receiver.
type Client struct {
	http       *retryablehttp.Client
	logger     logging.Logger
	clock      clock.Clock
	version    string
	userAgent  string
	retryDelay time.Duration
	timeout    time.Duration

	lastStamp atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger for retries and failures.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// WithClock sets the clock used for timestamps, session ids and latency.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) {
		c.clock = clock.OrReal(clk)
	}
}

// WithVersion sets the scope version of api_response events.
func WithVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.version = v
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client with 3 attempts, 1s linear backoff and a 30s
// per-attempt timeout unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:     logging.Nop(),
		clock:      clock.Real{},
		version:    DefaultVersion,
		retryDelay: DefaultRetryDelay,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userAgent == "" {
		c.userAgent = "revenium-gemini/" + c.version
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = MaxAttempts - 1
	rc.Backoff = linearBackoff(c.retryDelay)
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, retry int) {
		if retry > 0 {
			c.logger.Debug("retrying OTLP request", "attempt", retry+1, "max", MaxAttempts)
		}
	}
	rc.HTTPClient.Timeout = c.timeout
	c.http = rc

	return c
}

// LogsURL returns the receiver URL for a base endpoint.
func LogsURL(endpoint string) string {
	return config.OTLPEndpoint(endpoint) + logsPath
}

// Send posts payload and decodes the receiver's answer.
//
// Retryable failures are retried transparently; only the last one is
// returned. The credential is redacted from every returned error.
func (c *Client) Send(ctx context.Context, endpoint, credential string, payload *Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	url := LogsURL(endpoint)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, c.transportError(ctx, err, credential)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("x-api-key", credential)

	start := c.clock.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("OTLP request failed", "url", config.RedactSecret(url, credential), "error", config.RedactSecret(err.Error(), credential))
		return nil, c.transportError(ctx, err, credential)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       config.RedactSecret(strings.TrimSpace(string(text)), credential),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err, credential)
	}

	var out Response
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode OTLP response: %s", config.RedactSecret(err.Error(), credential))
	}
	out.StatusCode = resp.StatusCode

	c.logger.Debug("OTLP request accepted",
		"status", resp.StatusCode,
		"processed", out.ProcessedEvents,
		"elapsed", c.clock.Now().Sub(start))
	return &out, nil
}

func (c *Client) transportError(ctx context.Context, err error, credential string) *TransportError {
	if ctx.Err() == nil && isTimeout(err) {
		return &TransportError{Message: timeoutMessage(c.timeout), Timeout: true, Err: err}
	}
	return &TransportError{Message: config.RedactSecret(err.Error(), credential), Err: err}
}

// linearBackoff waits delay, then 2*delay, and so on.
func linearBackoff(delay time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return time.Duration(attemptNum+1) * delay
	}
}

// checkRetry decides whether an attempt is repeated. Context cancellation
// ends the loop with the context's error.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return isRetryableError(err), nil
	}
	return isRetryableStatus(resp.StatusCode), nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isRetryableError(err error) bool {
	if isTimeout(err) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection reset")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
