// Package config persists the metering configuration that Gemini CLI picks up
// from its environment.
//
// # Overview
//
// Gemini CLI can export OTLP telemetry but cannot attach custom headers to it.
// The metering backend therefore receives its credential through the one
// variable every OTLP exporter forwards: OTEL_RESOURCE_ATTRIBUTES. This package
// owns that variable and the files that export it:
//   - Validator: pure checks for the credential, email, endpoint and names
//   - Attribute codec: the comma-delimited, percent-escaped composite string
//   - Dialect codec: POSIX (export KEY='v') and Fish (set -gx KEY 'v') syntax
//   - Store: writes both files, loads whichever matches the active shell
//
// # Files
//
// Store.Write always writes the pair below, overwriting both:
//
//	~/.gemini/revenium.env   sourced by bash and zsh
//	~/.gemini/revenium.fish  sourced by fish
//
// The directory is created with mode 0700 and each file is restricted to 0600.
// Contents are identical apart from syntax:
//
//	export GEMINI_TELEMETRY_ENABLED='true'
//	export GEMINI_TELEMETRY_TARGET='local'
//	export GEMINI_TELEMETRY_OTLP_ENDPOINT='https://api.revenium.ai/meter/v2/otlp'
//	export GEMINI_TELEMETRY_OTLP_PROTOCOL='http'
//	export OTEL_RESOURCE_ATTRIBUTES='revenium.api_key=hak_...,organization.name=Acme%2C Inc.,cost_multiplier=1'
//	export REVENIUM_ORGANIZATION_NAME='Acme, Inc.'
//	export REVENIUM_COST_MULTIPLIER='1'
//
// # Quoting
//
// POSIX values are single-quoted; an embedded quote becomes '\'' (close, escaped
// quote, reopen). Loading parses the file with mvdan.cc/sh, so hand-edited
// double-quoted or unquoted values are read too. Fish values are single-quoted
// with \' and \\ as the only escapes.
//
// # Loading
//
// Load reads the file of the preferred dialect and falls back to the other.
// The credential only lives inside OTEL_RESOURCE_ATTRIBUTES; a file without it
// yields ErrUnparseable. Attribution fields come from the composite string
// first and from the standalone REVENIUM_* variables second. The stored
// endpoint includes the OTLP path, which is stripped again on load.
package config
