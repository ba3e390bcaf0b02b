// Package telemetry ships usage events to the metering backend.
//
// Events are OTLP-shaped JSON log records posted to
// {endpoint}/meter/v2/otlp/v1/logs with the credential in an x-api-key header
// and, because Gemini CLI itself can only send resource attributes, also under
// the revenium.api_key resource attribute.
//
// # Transport
//
// Client.Send is built on go-retryablehttp:
//   - at most 3 attempts, waiting 1s then 2s between them
//   - 408, 429, 500, 502, 503 and 504 are retried, other statuses are not
//   - connection resets, timeouts and DNS failures are retried
//   - each attempt is bounded by a 30s timeout; ctx bounds the whole loop
//
// Errors never carry the credential. A non-2xx answer surfaces as
// *StatusError and a network failure as *TransportError.
//
// # Usage
//
//	client := telemetry.NewClient(telemetry.WithVersion(version))
//	result := client.CheckHealth(ctx, cfg.Endpoint, cfg.APIKey, telemetry.AttributionFrom(cfg))
//	if !result.Healthy {
//	    fmt.Println(result.Message)
//	}
package telemetry
