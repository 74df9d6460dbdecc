// Package apiclient talks to the storefront REST API. Every call is a single
// attempt: failures are returned to the caller and never retried.
package apiclient

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

	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"go.uber.org/zap"
)

var ErrBaseURL = errors.New("apiclient: invalid base URL")

// Config configures the API client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // zero disables the client-side timeout
	UserAgent string
}

// Observer is notified after every request, successful or not.
type Observer interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration, err error)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a request observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client issues JSON requests against a fixed base URL.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    map[string]string
	observer   Observer
}

// New creates a client for the API rooted at cfg.BaseURL (e.g. http://host/api/v1).
func New(cfg Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, cfg.BaseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	ua := cfg.UserAgent
	if ua == "" {
		ua = "storefront-console/1.0"
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    u,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": ua,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Do executes one request. body, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req, body != nil)
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.send(req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObserveRequest(method, path, status, elapsed, err)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("storefront api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return resp, err
	}
	return resp, nil
}

func (c *Client) send(req *http.Request) (*Response, error) {
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &HTTPError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: httpResp.StatusCode,
			Body:       data,
		}
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		unescaped = path
	}
	u := *c.baseURL
	u.Path = c.baseURL.Path + unescaped
	u.RawPath = c.baseURL.EscapedPath() + path
	return u.String()
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}
