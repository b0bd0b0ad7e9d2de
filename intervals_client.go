package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	userAgent      = "intervalsicu-mcp-server/1.0"
	basicAuthUser  = "API_KEY"
	requestTimeout = 30 * time.Second
	missingKeyText = "API key is required. Set API_KEY env var or pass api_key"
)

// APIError is the uniform failure returned by IntervalsClient. StatusCode
// is zero when no HTTP response was received.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

var statusMessages = map[int]string{
	http.StatusUnauthorized:        "401 Unauthorized: Please check your API key.",
	http.StatusForbidden:           "403 Forbidden: You may not have permission to access this resource.",
	http.StatusNotFound:            "404 Not Found: The requested endpoint or ID doesn't exist.",
	http.StatusUnprocessableEntity: "422 Unprocessable Entity: The server couldn't process the request (invalid parameters or unsupported operation).",
	http.StatusTooManyRequests:     "429 Too Many Requests: Too many requests in a short time period.",
	http.StatusInternalServerError: "500 Internal Server Error: The Intervals.icu server encountered an internal error.",
	http.StatusServiceUnavailable:  "503 Service Unavailable: The Intervals.icu server might be down or undergoing maintenance.",
}

// statusMessage maps a non-2xx status to a friendly message, falling back
// to the raw response body.
func statusMessage(code int, body string) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return body
}

// Request describes one call to the Intervals.icu API.
type Request struct {
	Method string
	Path   string
	// APIKey overrides the configured key when non-nil.
	APIKey *string
	Params url.Values
	// Body is JSON encoded for POST and PUT and ignored otherwise.
	Body any
}

// IntervalsClient handles all interactions with the Intervals.icu API
type IntervalsClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
	apiKey      string
	baseURL     string
	logger      *slog.Logger
}

// ClientOption configures an IntervalsClient.
type ClientOption func(*IntervalsClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(ic *IntervalsClient) { ic.client = c }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(ic *IntervalsClient) { ic.logger = l }
}

// WithRateLimit sets the sustained request rate and burst size.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(ic *IntervalsClient) { ic.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewIntervalsClient creates a client for the configured API with rate limiting.
func NewIntervalsClient(cfg Config, opts ...ClientOption) *IntervalsClient {
	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}
	c := &IntervalsClient{
		client:      &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get is shorthand for a GET request.
func (c *IntervalsClient) Get(ctx context.Context, path string, apiKey *string, params url.Values) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, APIKey: apiKey, Params: params})
}

// Do performs an authenticated request and decodes the JSON response.
// Every failure is returned as an *APIError; an empty body decodes to an
// empty Record.
func (c *IntervalsClient) Do(ctx context.Context, r Request) (any, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	logger := c.logger.With("method", method, "path", r.Path)

	key := c.apiKey
	if r.APIKey != nil {
		key = *r.APIKey
	}
	if key == "" {
		logger.Error("no API key provided for request")
		recordUpstreamRequest(method, "no_api_key", 0)
		return nil, &APIError{Message: missingKeyText}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		recordUpstreamRequest(method, "transport_error", 0)
		return nil, &APIError{Message: fmt.Sprintf("Request error: %v", err)}
	}

	requestURL := c.baseURL + r.Path
	if len(r.Params) > 0 {
		requestURL += "?" + r.Params.Encode()
	}

	hasBody := method == http.MethodPost || method == http.MethodPut
	var body io.Reader
	if hasBody && r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			recordUpstreamRequest(method, "client_error", 0)
			return nil, &APIError{Message: fmt.Sprintf("HTTP client error: %v", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		recordUpstreamRequest(method, "client_error", 0)
		return nil, &APIError{Message: fmt.Sprintf("HTTP client error: %v", err)}
	}
	req.SetBasicAuth(basicAuthUser, key)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("request error", "error", err)
		recordUpstreamRequest(method, "transport_error", time.Since(start))
		return nil, &APIError{Message: fmt.Sprintf("Request error: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("failed to read response body", "error", err)
		recordUpstreamRequest(method, "client_error", elapsed)
		return nil, &APIError{Message: fmt.Sprintf("HTTP client error: %v", err)}
	}
	recordUpstreamRequest(method, strconv.Itoa(resp.StatusCode), elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("HTTP error", "status", resp.StatusCode, "body", string(raw))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode, string(raw)),
		}
	}

	if len(raw) == 0 {
		return Record{}, nil
	}
	payload, err := decodeJSON(raw)
	if err != nil {
		logger.Error("invalid JSON in response", "error", err)
		return nil, &APIError{Message: "Invalid JSON in response"}
	}
	logger.Debug("request completed", "status", resp.StatusCode, "elapsed", elapsed)
	return payload, nil
}
