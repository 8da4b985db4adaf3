package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cig-platform/backoffice-bff-client/internal/debug"
)

const (
	DefaultTimeout = 30 * time.Second

	// TokenHeader carries the caller's session token.
	TokenHeader     = "X-Cig-Token"
	RequestIDHeader = "X-Request-Id"
)

// Client is the backoffice BFF client.
//
// A Client holds only configuration fixed at construction and is safe for
// concurrent use. Tokens are passed per call.
type Client struct {
	baseURL      string
	http         *http.Client
	userAgent    string
	headers      http.Header
	encoder      Encoder
	newRequestID func() string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithTransportWrapper wraps the HTTP client's transport, for example to
// intercept requests before they leave the process.
func WithTransportWrapper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		if wrap == nil {
			return
		}
		hc := *c.http
		hc.Transport = wrap(hc.Transport)
		c.http = &hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// WithFileFields replaces the attachment allow-list.
func WithFileFields(names ...string) Option {
	return func(c *Client) {
		c.encoder = NewEncoder(names...).WithBoundary(c.encoder.boundary)
	}
}

// WithMultipartBoundary fixes the multipart boundary, making bodies reproducible.
func WithMultipartBoundary(boundary string) Option {
	return func(c *Client) { c.encoder = c.encoder.WithBoundary(boundary) }
}

// WithRequestIDFunc sets the generator for X-Request-Id values. A nil func
// disables the header.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.newRequestID = fn }
}

// New creates a client for the BFF at baseURL.
func New(baseURL string, opts ...Option) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		headers:      make(http.Header),
		encoder:      NewEncoder(DefaultFileFields...),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the BFF base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Encoder returns the payload encoder configured for this client.
func (c *Client) Encoder() Encoder {
	return c.encoder
}

// Request describes one call before encoding.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Token    string
	Fields   *FieldMap
	Encoding Encoding
}

// resourcePath substitutes escaped identifiers into format.
func (c *Client) resourcePath(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func (c *Client) url(path string, query url.Values) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Send encodes req and executes it. The returned error is non-nil only when
// req.Fields cannot be encoded; every transport or remote failure is in the Outcome.
func (c *Client) Send(ctx context.Context, req Request) (Outcome[json.RawMessage], error) {
	body, err := c.encoder.Encode(req.Fields, req.Encoding)
	if err != nil {
		return Outcome[json.RawMessage]{}, err
	}
	return c.Execute(ctx, req, body), nil
}

// Execute issues req with an already encoded body exactly once and
// normalizes the response.
func (c *Client) Execute(ctx context.Context, req Request, body Body) Outcome[json.RawMessage] {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	reqURL := c.url(req.Path, req.Query)

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, body.Reader())
	if err != nil {
		return failed[json.RawMessage](nil, nil, &TransportError{Method: method, URL: reqURL, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	if body.ContentType != "" {
		httpReq.Header.Set("Content-Type", body.ContentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if req.Token != "" {
		httpReq.Header.Set(TokenHeader, req.Token)
	}
	requestID := ""
	if c.newRequestID != nil {
		requestID = c.newRequestID()
		httpReq.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", method, "url", reqURL, "request_id", requestID, "error", err)
		}
		return failed[json.RawMessage](nil, nil, &TransportError{Method: method, URL: reqURL, Err: err})
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return failed[json.RawMessage](nil, nil, &TransportError{Method: method, URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)})
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", reqURL, "status", resp.StatusCode,
			"body", body.Kind.String(), "request_id", requestID, "duration", time.Since(start))
	}

	return c.normalize(ctx, method, reqURL, resp, respBody, requestID)
}

// normalize turns a received response into an Outcome. Error bodies that are
// JSON objects are passed through verbatim; anything else is a TransportError.
func (c *Client) normalize(ctx context.Context, method, reqURL string, resp *http.Response, body []byte, requestID string) Outcome[json.RawMessage] {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return succeeded(json.RawMessage(body))
	}
	if id := requestIDFromHeader(resp.Header); id != "" {
		requestID = id
	}
	if remote, ok := parseRemoteError(resp.StatusCode, requestID, body); ok {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "category", "structured", "status", resp.StatusCode, "kind", remote.Kind)
		}
		return failed[json.RawMessage](nil, remote, nil)
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request failed", "category", "unstructured", "status", resp.StatusCode)
	}
	return failed[json.RawMessage](nil, nil, &TransportError{Method: method, URL: reqURL, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus})
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get(RequestIDHeader)
}

// call runs the encode → execute → decode pipeline shared by every service
// method. fallback is returned as Value on any failure.
//
// call panics with a *FieldError if req.Fields cannot be encoded; service
// methods only build field maps from typed parameters, so this indicates a
// value encoding/json rejects (such as a NaN price).
func call[T any](ctx context.Context, r Requester, req Request, fallback T) Outcome[T] {
	body, err := r.encode(req)
	if err != nil {
		panic(err)
	}
	return decodeOutcome(r.execute(ctx, req, body), fallback)
}

func (c *Client) encode(req Request) (Body, error) {
	return c.encoder.Encode(req.Fields, req.Encoding)
}

func (c *Client) execute(ctx context.Context, req Request, body Body) Outcome[json.RawMessage] {
	return c.Execute(ctx, req, body)
}

// HealthCheck reports whether the BFF answers GET /health with 200.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/health", nil), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK, nil
}
