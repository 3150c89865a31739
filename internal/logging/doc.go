// Package logging provides structured logging helpers built on log/slog.
//
// It centralizes attribute names so that tool handlers, the calendar service
// and the backend client log the same keys:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.delete")
//	logger.Info("event deleted",
//	    logging.EventID(id),
//	    logging.Status(logging.StatusSuccess))
//
// Backend URLs pass through SanitizeURL before they are logged, and response
// bodies are cut with Truncate.
package logging
