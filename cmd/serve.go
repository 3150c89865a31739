package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/eventdesk/internal/config"
	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/logging"
	"github.com/teemow/eventdesk/internal/resources"
	"github.com/teemow/eventdesk/internal/server"
	"github.com/teemow/eventdesk/internal/tools/calendar_tools"
)

const (
	metricsStartupTimeout = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
)

// serveOptions are the serve flags on top of the shared settings.
type serveOptions struct {
	settings

	transport      string
	httpAddr       string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP server to expose calendar scheduling tools to AI assistants.

Supports multiple transports:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Tools:
  - calendar_create_event, calendar_list_events, calendar_update_event,
    calendar_delete_event and calendar_current_date

All event operations go to the REST backend configured with --backend-url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, os.LookupEnv, opts.apply(cmd))
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	opts.bindFlags(cmd)

	return cmd
}

func (o *serveOptions) bindFlags(cmd *cobra.Command) {
	o.settings.bindFlags(cmd)
	cmd.Flags().StringVarP(&o.transport, "transport", "t", config.DefaultTransport, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&o.httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().BoolVar(&o.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use "+config.EnvMetricsEnabled+" env var.")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use "+config.EnvMetricsAddr+" env var.")
}

// apply returns the override that copies explicitly set serve flags.
func (o *serveOptions) apply(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("transport") {
			cfg.Server.Transport = o.transport
		}
		if flags.Changed("http-addr") {
			cfg.Server.HTTPAddr = o.httpAddr
		}
		if flags.Changed("metrics-enabled") {
			cfg.Metrics.Enabled = o.metricsEnabled
		}
		if flags.Changed("metrics-addr") {
			cfg.Metrics.Addr = o.metricsAddr
		}
	}
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the MCP protocol on stdio, so all logs go to stderr.
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	transport := cfg.Server.Transport

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if transport == server.TransportStdio {
		instrConfig.ExportWriter = os.Stderr
	}
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != server.TransportStdio && cfg.Metrics.Enabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(cfg.Metrics.Addr, provider)
		if err != nil {
			return err
		}
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	svc, err := newCalendarService(cfg, metrics, logger)
	if err != nil {
		return err
	}

	serverOpts := []server.Option{
		server.WithBackendURL(cfg.BackendURL),
		server.WithLogger(logging.NewSlogAdapter(logger)),
	}
	if provider.Enabled() {
		serverOpts = append(serverOpts,
			server.WithMetrics(metrics),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		)
	}
	serverContext, err := server.NewServerContext(shutdownCtx, svc, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := newMCPServer(serverContext)
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	logger.Info("starting eventdesk MCP server",
		"transport", transport,
		logging.Backend(cfg.BackendURL),
		"today", serverContext.Today().Date,
		"location", serverContext.Today().TimeZone,
	)

	switch transport {
	case server.TransportStdio:
		return runStdioServer(mcpSrv)
	case server.TransportSSE, server.TransportStreamableHTTP:
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, metrics, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", transport)
	}
}

// newMCPServer creates the MCP server with today's date in its instructions.
func newMCPServer(sc *server.ServerContext) *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("eventdesk", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithInstructions(serverInstructions(sc.Today())),
	)
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc)
			},
		},
		{
			name: "Calendar Resources",
			register: func() error {
				return resources.RegisterCalendarResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		if err == nil {
			return nil, errors.New("metrics server stopped before it was ready")
		}
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(metricsStartupTimeout):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) error {
	healthChecker := server.NewHealthChecker(sc)

	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Transport: cfg.Server.Transport,
		Health:    healthChecker,
		Metrics:   metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	endpoint := "/mcp"
	if cfg.Server.Transport == server.TransportSSE {
		endpoint = "/sse"
	}
	logger.Info("HTTP server starting",
		"addr", cfg.Server.HTTPAddr,
		"endpoint", endpoint,
		"health", "/healthz, /readyz",
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
