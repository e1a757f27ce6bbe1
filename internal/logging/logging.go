// Package logging provides a shared, structured logger for ward-roster.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// WARD_ROSTER_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// Usage:
//
//	log := logging.New("virtual")      // creates a logger tagged with component="virtual"
//	log.Warn("item height did not converge", "index", i)
//	log.Error("fetch page", "error", err)
//
// Output goes to stderr unless WARD_ROSTER_LOG_FILE names a file, in which
// case entries are appended there. The roster UI owns the terminal while it
// runs, so pointing logs at a file keeps them from tearing the screen.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	// initLogger ensures the base logger is created exactly once across all
	// goroutines, even if multiple components call New concurrently.
	initLogger sync.Once

	// baseLogger is the singleton logger instance shared by all components.
	// Component-specific loggers are derived from this via With().
	baseLogger *slog.Logger
)

// New returns a structured logger scoped to the given component name.
//
// If component is empty, the base logger is returned without any additional
// attributes. The underlying base logger is lazily initialized on the first
// call and reused for all subsequent calls.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		baseLogger = slog.New(slog.NewTextHandler(openOutput(os.Getenv("WARD_ROSTER_LOG_FILE")), &slog.HandlerOptions{
			Level: parseLevel(os.Getenv("WARD_ROSTER_LOG_LEVEL")),
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// openOutput resolves the log destination. An empty path, or a file that
// cannot be opened, falls back to stderr.
func openOutput(path string) io.Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return os.Stderr
	}
	return f
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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
