package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/eventdesk/internal/backend"
	"github.com/teemow/eventdesk/internal/calendar"
	"github.com/teemow/eventdesk/internal/config"
	"github.com/teemow/eventdesk/internal/datetime"
	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/logging"
)

// settings holds the flags shared by serve and events.
type settings struct {
	configPath      string
	backendURL      string
	defaultTimeZone string
	location        string
	requestTimeout  time.Duration
	debug           bool
	logFormat       string
}

func (s *settings) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.configPath, "config", "", "Path to a YAML config file. Can also use "+config.DefaultConfigEnvVar+" env var.")
	cmd.Flags().StringVar(&s.backendURL, "backend-url", config.DefaultBackendURL, "Calendar backend base URL. Can also use "+config.EnvBackendURL+" env var.")
	cmd.Flags().StringVar(&s.defaultTimeZone, "default-timezone", config.DefaultTimeZone, "Time zone for new events that name none. Can also use "+config.EnvDefaultTimeZone+" env var.")
	cmd.Flags().StringVar(&s.location, "location", "", "IANA zone used to compute today's date (default: process local zone). Can also use "+config.EnvLocation+" env var.")
	cmd.Flags().DurationVar(&s.requestTimeout, "request-timeout", config.DefaultRequestTimeout, "Timeout for each backend request. Can also use "+config.EnvRequestTimeout+" env var.")
	cmd.Flags().BoolVar(&s.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&s.logFormat, "log-format", config.DefaultLogFormat, "Log format: text or json")
}

// resolve layers flags over env over the config file over defaults.
// lookup is usually os.LookupEnv. overrides run after the shared flags,
// before validation.
func (s *settings) resolve(cmd *cobra.Command, lookup func(string) (string, bool), overrides ...func(*config.Config)) (*config.Config, error) {
	path := s.configPath
	if path == "" {
		path, _ = lookup(config.DefaultConfigEnvVar)
	}
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend-url") {
		cfg.BackendURL = s.backendURL
	}
	if flags.Changed("default-timezone") {
		cfg.DefaultTimeZone = s.defaultTimeZone
	}
	if flags.Changed("location") {
		cfg.Location = s.location
	}
	if flags.Changed("request-timeout") {
		cfg.RequestTimeout = s.requestTimeout
	}
	if flags.Changed("debug") {
		cfg.Logging.Debug = s.debug
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = s.logFormat
	}
	for _, override := range overrides {
		override(cfg)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Logging.Debug {
		level = slog.LevelDebug
	}
	return slog.New(logging.NewHandler(w, level, cfg.Logging.Format))
}

// newCalendarService wires the backend client, normalizer and service.
func newCalendarService(cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) (*calendar.Service, error) {
	loc, err := cfg.LoadLocation()
	if err != nil {
		return nil, err
	}

	adapter := logging.NewSlogAdapter(logger)
	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.BackendURL,
		Timeout:   cfg.RequestTimeout,
		Metrics:   metrics,
		Logger:    adapter,
		UserAgent: "eventdesk/" + version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	return calendar.NewService(calendar.Config{
		Backend:         client,
		Normalizer:      datetime.NewNormalizer(loc),
		DefaultTimeZone: cfg.DefaultTimeZone,
		DefaultColor:    cfg.DefaultColor,
		Metrics:         metrics,
		Logger:          adapter,
	})
}
