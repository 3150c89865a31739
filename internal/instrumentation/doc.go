// Package instrumentation wires OpenTelemetry metrics, tracing and the tool
// audit log for eventdesk.
//
// Instruments:
//
//	http_requests_total, http_request_duration_seconds
//	    inbound MCP HTTP traffic by method, path and status
//	calendar_backend_requests_total, calendar_backend_request_duration_seconds
//	    outbound calls to the /events backend by method, route and status
//	calendar_envelopes_total
//	    operation results by operation and envelope status
//	mcp_tool_invocations_total, mcp_tool_duration_seconds
//	    tool calls by tool name and status
//
// Spans are named tool.<name> for tool calls and calendar.<operation> for
// service operations. Backend requests get client spans from otelhttp.
//
// The provider is configured from the environment (see ConfigFromEnv):
// INSTRUMENTATION_ENABLED, METRICS_EXPORTER, TRACING_EXPORTER,
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_TRACES_SAMPLER_ARG, OTEL_SERVICE_NAME,
// METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED and
// AUDIT_LOGGING_INCLUDE_CONTENT.
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
package instrumentation
