package server

import (
	"context"
	"errors"
	"sync"

	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/datetime"
	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/logging"
)

// ServerContext holds the state shared by all MCP tool and resource handlers.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	calendar   *calendar.Service
	today      datetime.CurrentDate
	backendURL string

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      logging.Logger

	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithMetrics sets the metrics recorder used by instrumented handlers.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = m
	}
}

// WithAuditLogger sets the audit logger used by instrumented handlers.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.auditLogger = al
	}
}

// WithBackendURL records the backend base URL for health reporting.
func WithBackendURL(u string) Option {
	return func(sc *ServerContext) {
		sc.backendURL = u
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l logging.Logger) Option {
	return func(sc *ServerContext) {
		sc.logger = l
	}
}

// NewServerContext creates a new server context around a calendar service.
// The current date is computed once here and stays fixed for the lifetime of
// the context.
func NewServerContext(ctx context.Context, svc *calendar.Service, opts ...Option) (*ServerContext, error) {
	if svc == nil {
		return nil, errors.New("calendar service is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		calendar: svc,
		today:    svc.Normalizer().Today(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = logging.DefaultLogger()
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Calendar returns the calendar service.
func (sc *ServerContext) Calendar() *calendar.Service {
	return sc.calendar
}

// Today returns the date fact computed at startup.
func (sc *ServerContext) Today() datetime.CurrentDate {
	return sc.today
}

// BackendURL returns the backend base URL, if known.
func (sc *ServerContext) BackendURL() string {
	return sc.backendURL
}

// Metrics returns the metrics recorder, or nil if instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics replaces the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil if audit logging is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
