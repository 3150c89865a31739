package logging

import "log/slog"

// Logger is the logging surface the backend client, the calendar service
// and the server context depend on. Args follow slog conventions.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogAdapter satisfies Logger with an embedded *slog.Logger.
type SlogAdapter struct {
	*slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps logger, or slog.Default when logger is nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{Logger: logger}
}

// With returns a Logger that adds args to every record.
func (a *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{Logger: a.Logger.With(args...)}
}

// DefaultLogger wraps slog.Default.
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(nil)
}
