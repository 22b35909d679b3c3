// Package levelapi provides the HTTP client shared by the Level API tool
// packages.
package levelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default configuration constants.
const (
	// DefaultBaseURL is the fixed host all tool operations talk to.
	DefaultBaseURL = "https://api.lvcdev.com"

	defaultTimeout = 120 * time.Second
)

// Client makes authenticated requests to the Level API. The credential is
// set at construction and immutable afterwards. Each call is independent and
// stateless; there is no retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a client authenticated with the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues an authenticated request to base+path and returns the parsed
// JSON body. Errors are values at this boundary: transport failures and
// unsupported methods come back as a failure-shaped Response, never as a Go
// error, so callers need no error branches around the call itself.
//
// GET ignores the payload; POST sends it as the JSON body. Any other method
// fails without a network call.
func (c *Client) Do(ctx context.Context, method, path string, payload map[string]any) Response {
	var req *http.Request
	var err error
	switch strings.ToUpper(method) {
	case http.MethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	case http.MethodPost:
		var body []byte
		body, err = json.Marshal(payload)
		if err != nil {
			return Failure(fmt.Sprintf("API request failed: %v", err))
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	default:
		return Failure(fmt.Sprintf("Unsupported HTTP method: %s", method))
	}
	if err != nil {
		return Failure(fmt.Sprintf("API request failed: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failure(fmt.Sprintf("API request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return Failure(fmt.Sprintf("API request failed: API returned status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(fmt.Sprintf("API request failed: %v", err))
	}
	// The body is returned verbatim, map or list; no schema is enforced.
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return Failure(fmt.Sprintf("API request failed: %v", err))
	}
	return Success(value)
}
