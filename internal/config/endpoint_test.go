package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTLPEndpoint(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://api.revenium.ai", "https://api.revenium.ai/meter/v2/otlp"},
		{"https://api.revenium.ai/", "https://api.revenium.ai/meter/v2/otlp"},
		{"http://localhost:8080//", "http://localhost:8080/meter/v2/otlp"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, OTLPEndpoint(tt.base))
		})
	}
}

func TestBaseEndpoint(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Full OTLP path", "https://api.example.com/meter/v2/otlp", "https://api.example.com"},
		{"Meter prefix only", "https://api.example.com/meter/", "https://api.example.com"},
		{"Bare meter segment", "https://api.example.com/meter", "https://api.example.com"},
		{"Proxy prefix kept", "https://proxy.local/revenium/meter/v2/otlp", "https://proxy.local/revenium"},
		{"Already base", "https://api.revenium.ai", "https://api.revenium.ai"},
		{"Trailing slash", "https://api.revenium.ai/", "https://api.revenium.ai"},
		{"Port kept", "http://localhost:8080/meter/v2/otlp", "http://localhost:8080"},
		{"Similar segment untouched", "https://api.example.com/metering", "https://api.example.com/metering"},
		{"Surrounding whitespace", "  https://api.example.com/meter/v2  ", "https://api.example.com"},
		{"Not a URL", "not a url/", "not a url"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseEndpoint(tt.raw))
		})
	}
}

func TestBaseEndpoint_InvertsOTLPEndpoint(t *testing.T) {
	for _, base := range []string{
		"https://api.revenium.ai",
		"http://127.0.0.1:9000",
		"https://gateway.internal/tenant-a",
	} {
		assert.Equal(t, base, BaseEndpoint(OTLPEndpoint(base)))
	}
}
