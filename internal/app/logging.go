package app

import (
	"log/slog"

	"github.com/treykane/ward-roster/internal/logging"
)

// appLog is the package-level structured logger for the app package.
//
// The log level is controlled by the WARD_ROSTER_LOG_LEVEL environment
// variable (see the logging package for details). While the roster is on
// screen, point WARD_ROSTER_LOG_FILE at a file so entries do not land on the
// terminal the UI is drawing to.
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message and
// simultaneously logs a structured error entry with full context.
//
// Usage:
//
//	m.setStatusError("Could not load patients", err, "offset", offset)
//
// The status parameter is displayed verbatim in the UI, while the err and any
// additional key-value attrs are included only in the log entry.
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	m.statusIsError = true
	fields := make([]any, 0, len(attrs)+1)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}

// setStatus shows an informational message in the footer.
func (m *Model) setStatus(status string) {
	m.status = status
	m.statusIsError = false
}
