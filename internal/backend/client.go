package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teemow/eventdesk/internal/instrumentation"
	"github.com/teemow/eventdesk/internal/logging"
)

const (
	// DefaultBaseURL is where the calendar backend listens by default.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request correlation ID to the backend.
	RequestIDHeader = "X-Request-ID"

	eventsPath = "/events"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:3000".
	BaseURL string

	// Timeout for each request (default: DefaultTimeout). Ignored when
	// HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default otelhttp-instrumented client.
	HTTPClient *http.Client

	// Metrics records one sample per backend call. May be nil.
	Metrics *instrumentation.Metrics

	// Logger receives debug logs for each call. Nil means slog.Default().
	Logger logging.Logger

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// Client talks to the calendar backend's REST contract:
// POST /events, GET /events, PUT /events/{id}, DELETE /events/{id}.
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     logging.Logger
	userAgent  string
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", logging.SanitizeURL(cfg.BaseURL))
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", logging.SanitizeURL(cfg.BaseURL))
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     logger,
		userAgent:  cfg.UserAgent,
	}, nil
}

// BaseURL returns the backend root this client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateEvent sends POST /events and returns the event the backend stored.
func (c *Client) CreateEvent(ctx context.Context, req CreateRequest) (*Event, error) {
	var ev Event
	if _, err := c.do(ctx, http.MethodPost, eventsPath, req, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListEvents sends GET /events and returns every event the backend has.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if _, err := c.do(ctx, http.MethodGet, eventsPath, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent sends PUT /events/{id} with only the fields set in req.
func (c *Client) UpdateEvent(ctx context.Context, id string, req UpdateRequest) (*Event, error) {
	var ev Event
	if _, err := c.do(ctx, http.MethodPut, eventPath(id), req, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent sends DELETE /events/{id} and returns the 2xx status code.
// An empty response body is success.
func (c *Client) DeleteEvent(ctx context.Context, id string) (int, error) {
	return c.do(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

func eventPath(id string) string {
	return eventsPath + "/" + url.PathEscape(id)
}

// do performs one request. It returns the HTTP status code, a *Error for
// non-2xx responses and a *ConnectivityError when no response arrived.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordBackendRequest(ctx, method, path, 0, time.Since(start))
		c.logger.Debug("backend request failed",
			"method", method, "path", path, "request_id", requestID, logging.Err(err))
		return 0, &ConnectivityError{Op: method, URL: logging.SanitizeURL(c.baseURL + path), Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	duration := time.Since(start)
	c.metrics.RecordBackendRequest(ctx, method, path, resp.StatusCode, duration)
	c.logger.Debug("backend request completed",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, logging.KeyDuration, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("backend error response",
			"method", method, "path", path, "status", resp.StatusCode, "request_id", requestID,
			"body", logging.Truncate(string(bytes.TrimSpace(data)), errorExcerptBytes))
		return resp.StatusCode, newError(resp.StatusCode, data)
	}
	if readErr != nil {
		return resp.StatusCode, fmt.Errorf("failed to read %s %s response: %w", method, path, readErr)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the
// method and URL already carried by ConnectivityError.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
