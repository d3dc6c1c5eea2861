package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// Validator is implemented by response types that can check their own
// required fields after decoding.
type Validator interface {
	Validate() error
}

type Request struct {
	Method       string
	Path         string
	Route        string // metrics label; defaults to Path
	Body         any
	RequiresAuth bool
}

// Client issues one HTTP request per call. It never retries, caches or queues.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    *Metrics
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

func WithMetrics(m *Metrics) Option { return func(c *Client) { c.metrics = m } }

func New(baseURL string, tokens TokenSource, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     logger.With(zap.String("component", "apiclient")),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c
}

// Do sends req and decodes a successful JSON body into out (which may be nil).
// Errors are *NetworkError, *ServerError or *DecodeError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	route := req.Route
	if route == "" {
		route = req.Path
	}
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.requests.WithLabelValues(req.Method, route, outcome).Inc()
		c.metrics.duration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	}()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		outcome = "network_error"
		return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	reqID := httpReq.Header.Get(RequestIDHeader)
	log := c.logger.With(zap.String("method", req.Method), zap.String("path", req.Path), zap.String("request_id", reqID))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		outcome = "network_error"
		log.Warn("request failed", zap.Error(err))
		return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "network_error"
		log.Warn("reading response body failed", zap.Error(err))
		return &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	log.Debug("response received", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "server_error"
		se := &ServerError{Status: resp.StatusCode, Message: extractMessage(body)}
		log.Warn("server rejected request", zap.Int("status", se.Status), zap.String("message", se.Message))
		return se
	}

	if out == nil {
		return nil
	}
	if err := decode(body, out); err != nil {
		outcome = "decode_error"
		log.Warn("malformed response body", zap.Error(err))
		return &DecodeError{Path: req.Path, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.RequiresAuth && c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok && tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return httpReq, nil
}

func decode(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	if v, ok := out.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return DefaultErrorMessage
	}
	for _, field := range []string{"message", "error", "msg"} {
		if r := gjson.GetBytes(body, field); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return DefaultErrorMessage
}
