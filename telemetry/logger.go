// Package telemetry provides the shared logger factory.
package telemetry

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger creates a structured JSON logger tagged with the service name.
func NewLogger(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	return zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// NewConsoleLogger creates a human-readable logger for interactive CLI use.
func NewConsoleLogger(service string, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
