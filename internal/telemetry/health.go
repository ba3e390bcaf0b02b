package telemetry

import (
	"context"
	"fmt"

	"github.com/revenium/gemini-meter/internal/config"
)

// CheckHealth sends a connectivity-test event and reports the outcome.
// Failures are folded into the result; it never returns an error.
func (c *Client) CheckHealth(ctx context.Context, endpoint, credential string, attr Attribution) HealthResult {
	start := c.clock.Now()

	resp, err := c.SendTestEvent(ctx, endpoint, credential, NewSessionID(c.clock), attr)
	latency := c.clock.Now().Sub(start)

	if err != nil {
		c.logger.Debug("health check failed", "error", err)
		return HealthResult{
			Healthy:    false,
			StatusCode: StatusCodeOf(err),
			Message:    config.RedactSecret(err.Error(), credential),
			Latency:    latency,
		}
	}

	return HealthResult{
		Healthy:    true,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("Endpoint healthy. Processed %d event(s).", resp.ProcessedEvents),
		Latency:    latency,
	}
}

// TestPayload builds the zero-valued api_response event used for connectivity tests.
func (c *Client) TestPayload(sessionID, credential string, attr Attribution) (*Payload, error) {
	return c.BuildPayload(Event{
		Kind:        EventAPIResponse,
		SessionID:   sessionID,
		Credential:  credential,
		Attribution: attr,
		Model:       ConnectivityTestModel,
	})
}

// SendTestEvent builds a connectivity-test event for sessionID and sends it.
func (c *Client) SendTestEvent(ctx context.Context, endpoint, credential, sessionID string, attr Attribution) (*Response, error) {
	payload, err := c.TestPayload(sessionID, credential, attr)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, endpoint, credential, payload)
}
