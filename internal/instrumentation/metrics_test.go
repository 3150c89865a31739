package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, detailedLabels bool) (*Provider, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		DetailedLabels:  detailedLabels,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	if provider.Metrics() == nil {
		t.Fatal("expected metrics to be non-nil")
	}
	return provider, ctx
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	provider, ctx := newTestProvider(t, false)
	metrics := provider.Metrics()

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordBackendRequest(t *testing.T) {
	for _, detailed := range []bool{false, true} {
		provider, ctx := newTestProvider(t, detailed)
		metrics := provider.Metrics()

		metrics.RecordBackendRequest(ctx, "GET", "/events", 200, 20*time.Millisecond)
		metrics.RecordBackendRequest(ctx, "PUT", "/events/e1", 404, 15*time.Millisecond)
		metrics.RecordBackendRequest(ctx, "DELETE", "/events/e1", 0, time.Second)
	}
}

func TestMetrics_RecordEnvelope(t *testing.T) {
	provider, ctx := newTestProvider(t, false)
	metrics := provider.Metrics()

	metrics.RecordEnvelope(ctx, OperationCreate, "success")
	metrics.RecordEnvelope(ctx, OperationDelete, "confirmation_required")
	metrics.RecordEnvelope(ctx, OperationUpdate, "info")
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	provider, ctx := newTestProvider(t, false)
	metrics := provider.Metrics()

	metrics.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, 40*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "calendar_create_event", StatusError, 10*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	metrics.RecordBackendRequest(ctx, "GET", "/events", 200, time.Millisecond)
	metrics.RecordEnvelope(ctx, OperationList, "success")
	metrics.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, time.Millisecond)
}
