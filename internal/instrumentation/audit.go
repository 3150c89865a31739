package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// ToolInvocation is the audit record of one MCP tool call.
//
// Summary is the event title supplied by the caller. It is user content and
// only reaches the log when the AuditLogger has IncludeContent set.
type ToolInvocation struct {
	Tool           string
	Operation      string
	EventID        string
	Summary        string
	EnvelopeStatus string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts the clock for tool. Finish it with one of the
// Complete methods.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{Tool: tool, StartTime: time.Now()}
}

func (ti *ToolInvocation) WithOperation(operation string) *ToolInvocation {
	ti.Operation = operation
	return ti
}

// WithEvent records the target event and its title.
func (ti *ToolInvocation) WithEvent(id, summary string) *ToolInvocation {
	ti.EventID = id
	ti.Summary = summary
	return ti
}

// WithEnvelopeStatus records the status of the envelope handed back to the
// client (success, error, confirmation_required, info).
func (ti *ToolInvocation) WithEnvelopeStatus(status string) *ToolInvocation {
	ti.EnvelopeStatus = status
	return ti
}

// WithSpanContext copies the trace and span IDs of the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID, ti.SpanID = SpanIDs(ctx)
	return ti
}

func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// Status is StatusSuccess or StatusError.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs renders the invocation as slog attributes. Empty fields are
// omitted and the summary is only included when includeContent is set.
func (ti *ToolInvocation) LogAttrs(includeContent bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	optional := []struct {
		key, value string
		skip       bool
	}{
		{key: "operation", value: ti.Operation},
		{key: "event_id", value: ti.EventID},
		{key: "envelope_status", value: ti.EnvelopeStatus},
		{key: "summary", value: ti.Summary, skip: !includeContent},
		{key: "trace_id", value: ti.TraceID},
		{key: "span_id", value: ti.SpanID},
		{key: "error", value: ti.Error},
	}
	for _, o := range optional {
		if o.value != "" && !o.skip {
			attrs = append(attrs, slog.String(o.key, o.value))
		}
	}
	return attrs
}

// AuditLogger writes one entry per tool invocation. A nil AuditLogger
// discards everything.
type AuditLogger struct {
	logger         *slog.Logger
	enabled        bool
	includeContent bool
}

// NewAuditLogger returns an enabled AuditLogger that leaves event titles out.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig returns an AuditLogger writing to logger, or to
// slog.Default when logger is nil.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:         logger,
		enabled:        config.Enabled,
		includeContent: config.IncludeContent,
	}
}

// LogToolInvocation logs "tool_executed" at info for a successful call and
// "tool_failed" at warn otherwise.
func (al *AuditLogger) LogToolInvocation(ctx context.Context, ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	level, msg := slog.LevelInfo, "tool_executed"
	if !ti.Success {
		level, msg = slog.LevelWarn, "tool_failed"
	}
	al.logger.LogAttrs(ctx, level, msg, ti.LogAttrs(al.includeContent)...)
}
