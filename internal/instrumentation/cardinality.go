package instrumentation

import "strings"

// Operation names used as metric labels and span names.
const (
	OperationCreate = "create"
	OperationList   = "list"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// NormalizeBackendPath collapses event identifiers in backend paths so that
// metrics carry one series per route instead of one per event.
//
// Example:
//
//	NormalizeBackendPath("/events")             // "/events"
//	NormalizeBackendPath("/events/abc123")      // "/events/{id}"
//	NormalizeBackendPath("/api/events/abc?x=1") // "/api/events/{id}"
func NormalizeBackendPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if segments[i-1] == "events" && segments[i] != "" {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}
