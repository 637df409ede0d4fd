package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/authevent"
)

const (
	// DefaultTimeout bounds every request
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read
	maxBodySize = 1 << 20

	requestIDHeader = "X-Request-ID"
)

// Client represents an HTTP client for the alumni API. The session cookie is
// attached by the cookie jar; nothing in this package reads or writes it.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	notifier   authevent.Notifier
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCookieJar sets the jar that carries the session cookie
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.httpClient.Jar = jar
	}
}

// WithNotifier sets the receiver of 401/403 signals
func WithNotifier(n authevent.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the logger used for failed requests
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a new API client for the given base URL (e.g.
// http://localhost:5000/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API base URL must be http or https, got %q", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		notifier: authevent.NotifierFunc(func(authevent.Event) {}),
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetHTTPClient sets a custom HTTP client. The current jar and timeout are
// carried over when the new client leaves them unset.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient.Jar == nil {
		httpClient.Jar = c.httpClient.Jar
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = c.httpClient.Timeout
	}
	c.httpClient = httpClient
}

// BaseURL returns a copy of the API base URL
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Jar returns the cookie jar in use
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// do sends a request and returns the response body of a 2xx response. Every
// failure passes through intercept exactly once.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.intercept(&TransportError{
			Method:  method,
			Path:    path,
			Err:     err,
			timeout: isTimeout(err),
		})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.intercept(&TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.intercept(newAPIError(method, path, resp.StatusCode, data))
	}

	return data, nil
}

// doJSON is do plus decoding of the response into out (when out is non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// intercept is the single classification point for failed requests. It
// raises a session-lifecycle signal for 401 and 403 and always returns err
// unchanged.
func (c *Client) intercept(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		c.logger.Debug().Err(err).Msg("API request failed")
		return err
	}

	c.logger.Debug().
		Int("status", apiErr.Status).
		Str("path", apiErr.Path).
		Str("message", apiErr.Message).
		Msg("API error")

	switch apiErr.Status {
	case http.StatusUnauthorized:
		c.notifier.Notify(authevent.Event{Kind: authevent.Unauthorized, Path: apiErr.Path})
	case http.StatusForbidden:
		c.notifier.Notify(authevent.Event{Kind: authevent.Forbidden, Path: apiErr.Path})
	}

	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
