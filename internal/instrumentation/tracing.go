package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for tool and operation spans.
const TracerName = "github.com/teemow/eventdesk"

// Span attribute keys.
const (
	SpanAttrTool           = "mcp.tool"
	SpanAttrOperation      = "calendar.operation"
	SpanAttrEventID        = "calendar.event_id"
	SpanAttrEnvelopeStatus = "calendar.envelope_status"
	SpanAttrEventCount     = "calendar.event_count"
)

// SpanAttributeBuilder collects span attributes, skipping empty values.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{}
}

func (b *SpanAttributeBuilder) add(key, value string) *SpanAttributeBuilder {
	if value != "" {
		b.attrs = append(b.attrs, attribute.String(key, value))
	}
	return b
}

// WithOperation tags the calendar operation (create, list, update, delete).
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	return b.add(SpanAttrOperation, operation)
}

// WithEventID tags the backend event identifier.
func (b *SpanAttributeBuilder) WithEventID(id string) *SpanAttributeBuilder {
	return b.add(SpanAttrEventID, id)
}

// Build returns the collected attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, first attribute.KeyValue, rest []attribute.KeyValue) (context.Context, trace.Span) {
	attrs := append([]attribute.KeyValue{first}, rest...)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// StartToolSpan starts the server span "tool.<name>" for an MCP tool call.
// The caller ends the span.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer, attribute.String(SpanAttrTool, toolName), attrs)
}

// StartOperationSpan starts the internal span "calendar.<operation>".
func StartOperationSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, "calendar."+operation, trace.SpanKindInternal, attribute.String(SpanAttrOperation, operation), attrs)
}

// SetSpanError records err on span. A nil err leaves the span untouched.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// SpanIDs returns the hex trace and span IDs of the span in ctx, or empty
// strings when ctx carries no valid span.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
