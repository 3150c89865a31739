package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/instrumentation"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// Transport is TransportSSE or TransportStreamableHTTP.
	Transport string

	// Health, when set, registers /healthz, /readyz and /healthz/detailed.
	Health *HealthChecker

	// Metrics may be nil.
	Metrics *instrumentation.Metrics
}

// HTTPServer exposes an MCP server over SSE or streamable HTTP.
type HTTPServer struct {
	transport string
	handler   http.Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// NewHTTPServer builds the HTTP routes for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, cfg HTTPServerConfig) (*HTTPServer, error) {
	mux := http.NewServeMux()

	switch cfg.Transport {
	case TransportSSE:
		sseServer := mcpserver.NewSSEServer(mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)
		mux.Handle("/sse", sseServer)
		mux.Handle("/message", sseServer)

	case TransportStreamableHTTP:
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		))

	default:
		return nil, fmt.Errorf("unsupported server type: %s", cfg.Transport)
	}

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(mux)
	}

	return &HTTPServer{
		transport: cfg.Transport,
		handler:   metricsMiddleware(cfg.Metrics, mux),
	}, nil
}

// Handler returns the instrumented route handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Transport returns the configured transport name.
func (s *HTTPServer) Transport() string {
	return s.transport
}

// Start listens on addr until Shutdown is called.
func (s *HTTPServer) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: SSE and streamable HTTP responses are long lived.
		IdleTimeout: 120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	slog.Info("starting MCP HTTP server", "addr", addr, "transport", s.transport)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}
