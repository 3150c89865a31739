// Package resources provides read-only MCP resources. calendar://context/today
// carries the current-date fact computed when the server started.
package resources
