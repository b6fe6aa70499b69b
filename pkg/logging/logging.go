// Package logging provides the slog.Logger factory shared by all neogit apps.
//
// Output format is selected with the LOG_FORMAT environment variable:
//
//	LOG_FORMAT=json    structured JSON for log aggregators (default)
//	LOG_FORMAT=text    key=value pairs for local development
//
// Verbosity is selected with LOG_LEVEL (debug, info, warn, error; default info).
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a logger configured from environment variables.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(os.Getenv("LOG_LEVEL"))}

	var h slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "text", "console":
		h = slog.NewTextHandler(os.Stdout, opts)
	default:
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

// Component returns a child logger tagged with a component name, so log
// lines from different subsystems are distinguishable in aggregated output.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With("component", name)
}

func level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
