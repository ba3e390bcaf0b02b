package config

import (
	"net/url"
	"strings"
)

// OTLPEndpoint appends the OTLP receiver path to a base endpoint.
func OTLPEndpoint(base string) string {
	return strings.TrimRight(base, "/") + OTLPPath
}

// BaseEndpoint strips an export sub-path ("/meter/...") and trailing slashes
// from raw. Values that do not parse as absolute URLs are only trimmed.
//
//	https://api.revenium.ai/meter/v2/otlp  -> https://api.revenium.ai
//	https://proxy.local/revenium/meter/v2  -> https://proxy.local/revenium
func BaseEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}

	path := u.Path
	if idx := strings.Index(path+"/", exportPathMarker); idx >= 0 {
		path = path[:idx]
	}

	base := url.URL{Scheme: u.Scheme, Host: u.Host, Path: strings.TrimRight(path, "/")}
	return base.String()
}
