// Package logging provides the structured logger shared by the metering packages.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Logger provides structured logging for metering operations.
// *log.Logger from charmbracelet/log satisfies it, so callers can pass one directly.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg interface{}, keyvals ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg interface{}, keyvals ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg interface{}, keyvals ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg interface{}, keyvals ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(msg interface{}, keyvals ...interface{}) {}
func (noopLogger) Info(msg interface{}, keyvals ...interface{})  {}
func (noopLogger) Warn(msg interface{}, keyvals ...interface{})  {}
func (noopLogger) Error(msg interface{}, keyvals ...interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return noopLogger{}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// New builds the CLI logger. Verbose lowers the level to debug.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix: "revenium-gemini",
		Level:  level,
	})
}
