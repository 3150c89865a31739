package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBackendURL      = "http://localhost:3000"
	DefaultTimeZone        = "Asia/Colombo"
	DefaultColor           = "#def5e6"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultTransport       = "stdio"
	DefaultHTTPAddr        = ":8080"
	DefaultLogFormat       = "text"
	DefaultMetricsAddr     = ":9090"
	DefaultConfigEnvVar    = "EVENTDESK_CONFIG"
	defaultConfigFileName  = "config.yaml"
	defaultConfigDirectory = "eventdesk"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackendURL      = "CALENDAR_BACKEND_URL"
	EnvDefaultTimeZone = "CALENDAR_DEFAULT_TIMEZONE"
	EnvDefaultColor    = "CALENDAR_DEFAULT_COLOR"
	EnvRequestTimeout  = "CALENDAR_REQUEST_TIMEOUT"
	EnvLocation        = "CALENDAR_LOCATION"
	EnvMetricsEnabled  = "METRICS_ENABLED"
	EnvMetricsAddr     = "METRICS_ADDR"
)

// Config is the eventdesk configuration file.
type Config struct {
	// BackendURL is the base URL of the calendar REST backend.
	BackendURL string `yaml:"backend_url"`

	// DefaultTimeZone is sent with new events that name no zone.
	DefaultTimeZone string `yaml:"default_timezone"`

	// DefaultColor is the background colour of new events.
	DefaultColor string `yaml:"default_color"`

	// RequestTimeout bounds each backend call, e.g. "30s".
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Location is the IANA zone used to compute "today". Empty means the
	// process local zone.
	Location string `yaml:"location,omitempty"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	// Transport is stdio, sse or streamable-http.
	Transport string `yaml:"transport"`
	// HTTPAddr is the listen address for the HTTP transports.
	HTTPAddr string `yaml:"http_addr"`
}

// LoggingConfig controls the default slog handler.
type LoggingConfig struct {
	Debug  bool   `yaml:"debug"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		BackendURL:      DefaultBackendURL,
		DefaultTimeZone: DefaultTimeZone,
		DefaultColor:    DefaultColor,
		RequestTimeout:  DefaultRequestTimeout,
		Server: ServerConfig{
			Transport: DefaultTransport,
			HTTPAddr:  DefaultHTTPAddr,
		},
		Logging: LoggingConfig{
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, defaultConfigDirectory, defaultConfigFileName), nil
}

// Normalize fills in zero values with defaults so that partial files still
// behave correctly.
func (c *Config) Normalize() {
	c.BackendURL = strings.TrimRight(strings.TrimSpace(c.BackendURL), "/")
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.DefaultTimeZone == "" {
		c.DefaultTimeZone = DefaultTimeZone
	}
	if c.DefaultColor == "" {
		c.DefaultColor = DefaultColor
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Server.Transport == "" {
		c.Server.Transport = DefaultTransport
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
}

// ApplyEnv overrides fields from the CALENDAR_* and METRICS_* environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBackendURL); ok && v != "" {
		c.BackendURL = v
	}
	if v, ok := lookup(EnvDefaultTimeZone); ok && v != "" {
		c.DefaultTimeZone = v
	}
	if v, ok := lookup(EnvDefaultColor); ok && v != "" {
		c.DefaultColor = v
	}
	if v, ok := lookup(EnvLocation); ok && v != "" {
		c.Location = v
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	if v, ok := lookup(EnvMetricsEnabled); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMetricsEnabled, err)
		}
		c.Metrics.Enabled = enabled
	}
	if v, ok := lookup(EnvMetricsAddr); ok && v != "" {
		c.Metrics.Addr = v
	}
	return nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks the configuration after Normalize.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend URL scheme %q: must be http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: host is required", c.BackendURL)
	}

	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid default time zone %q: %w", c.DefaultTimeZone, err)
	}
	if _, err := c.LoadLocation(); err != nil {
		return err
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	switch c.Server.Transport {
	case "stdio", "sse", "streamable-http":
	default:
		return fmt.Errorf("invalid transport %q: must be stdio, sse or streamable-http", c.Server.Transport)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Logging.Format)
	}

	return nil
}

// LoadLocation resolves Location, defaulting to time.Local.
func (c *Config) LoadLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

// Load reads the YAML file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions, creating the
// parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventdesk-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
