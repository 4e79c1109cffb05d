package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one network round trip, not one logical list
// operation, which may issue many requests.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "huntdesk"

// Client is a bearer-authenticated JSON transport over one upstream
// base URL. Retries are disabled by default so that a transport
// failure aborts an in-progress pagination loop instead of being
// papered over.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	headers   map[string]string
	http      *retryablehttp.Client
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.HTTPClient.Timeout = timeout
	}
}

// WithHeader adds a header to every request, e.g. an upstream API
// version pin.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// WithRetryMax enables transport-level retries for callers outside the
// pagination path.
func WithRetryMax(retries int) Option {
	return func(c *Client) {
		c.http.RetryMax = retries
	}
}

// WithLogger attaches a logger for request debug lines.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a transport for baseURL, authenticating with token
// when it is non-empty.
func NewClient(baseURL, token string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.HTTPClient.Timeout = DefaultTimeout

	client := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		userAgent: defaultUserAgent,
		headers:   make(map[string]string),
		http:      rc,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Response is a decoded-enough upstream response: status plus raw body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// URL resolves path and query against the client's base URL. Paths
// that are already absolute (next-page links) pass through unchanged.
// The result is the cache key for the request.
func (c *Client) URL(path string, query url.Values) string {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}

	if len(query) > 0 {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}

		target += separator + query.Encode()
	}

	return target
}

// Get issues a GET for path with query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.URL(path, query), nil)
}

// GetURL issues a GET for a fully-resolved URL, e.g. a next-page link.
func (c *Client) GetURL(ctx context.Context, fullURL string) (*Response, error) {
	return c.do(ctx, http.MethodGet, fullURL, nil)
}

// Post issues a POST for path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.URL(path, nil), body)
}

func (c *Client) do(ctx context.Context, method, fullURL string, body any) (*Response, error) {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	c.logger.Debug("upstream request", zap.String("method", method), zap.String("url", fullURL))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", huntapi.ErrTransport, method, fullURL, err)
	}

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", huntapi.ErrTransport, err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	c.logger.Debug("upstream response", zap.String("url", fullURL), zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return response, fmt.Errorf("%w: %s %s returned %d", huntapi.ErrUnauthorized, method, fullURL, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return response, fmt.Errorf("%w: %s %s", huntapi.ErrNotFound, method, fullURL)
	case resp.StatusCode >= 400:
		return response, fmt.Errorf("%w: %s %s returned %d", huntapi.ErrTransport, method, fullURL, resp.StatusCode)
	}

	return response, nil
}
