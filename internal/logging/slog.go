package logging

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation      = "operation"
	KeyTool           = "tool"
	KeyStatus         = "status"
	KeyEnvelopeStatus = "envelope_status"
	KeyError          = "error"
	KeyEventID        = "event_id"
	KeyBackend        = "backend"
	KeyDuration       = "duration"
)

// Status values for consistent logging.
// Duplicated from instrumentation, which imports this package.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Log formats accepted by NewHandler.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewHandler returns a slog handler writing to w. Unknown formats fall back
// to text.
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// EnvelopeStatus returns a slog attribute for a result envelope status.
func EnvelopeStatus(status string) slog.Attr {
	return slog.String(KeyEnvelopeStatus, status)
}

// EventID returns a slog attribute for a backend event identifier.
func EventID(id string) slog.Attr {
	return slog.String(KeyEventID, id)
}

// Backend returns a slog attribute for the backend base URL with
// credentials and query stripped.
func Backend(rawURL string) slog.Attr {
	return slog.String(KeyBackend, SanitizeURL(rawURL))
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that slog omits.
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeURL drops user info, query and fragment from a URL so that it can
// be logged. Unparsable input is replaced with a placeholder.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Truncate shortens s to at most n bytes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
