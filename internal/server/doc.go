// Package server provides the MCP server context and the HTTP transports for
// eventdesk.
//
// ServerContext owns the calendar service, the current-date fact computed at
// startup, and the optional metrics recorder and audit logger that tool
// handlers use.
//
// HTTPServer exposes the MCP server over SSE or streamable HTTP, with health
// probes (/healthz, /readyz, /healthz/detailed) and request metrics.
// MetricsServer serves Prometheus metrics on a separate port.
package server
