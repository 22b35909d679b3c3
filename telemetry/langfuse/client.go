// Package langfuse provides a thin client for Langfuse: trace URL
// construction, prompt retrieval and OTel trace export.
package langfuse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 30 * time.Second

// Client talks to a Langfuse deployment. It is explicitly constructed and
// owned by the caller; there is no process-wide lazy singleton.
type Client struct {
	host       string
	authHeader string
	httpClient *http.Client
}

// ClientOption is a functional option for configuring the client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Langfuse client from the given config. A nil config falls
// back to the LANGFUSE_* environment variables. It returns a configuration
// error when any of the required keys is missing.
func New(config *Config, opts ...ClientOption) (*Client, error) {
	if config == nil {
		config = NewConfigFromEnv()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		host:       config.host(),
		authHeader: "Basic " + encodeAuth(config.PublicKey, config.SecretKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TraceURL constructs the browsable URL for a trace ID.
func (c *Client) TraceURL(traceID string) string {
	return fmt.Sprintf("%s/trace/%s", c.host, traceID)
}

// SpanTraceURL constructs the browsable URL for the trace a span belongs to.
// It returns an empty string when the span carries no valid trace context.
func (c *Client) SpanTraceURL(span trace.Span) string {
	if span == nil {
		return ""
	}
	sc := span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return c.TraceURL(sc.TraceID().String())
}

// Prompt is a named prompt stored in Langfuse.
type Prompt struct {
	Name    string   `json:"name"`
	Prompt  string   `json:"prompt"`
	Version int      `json:"version"`
	Labels  []string `json:"labels"`
}

// Compile expands {{variable}} placeholders in the prompt text. Unmatched
// placeholders are left as-is.
func (p *Prompt) Compile(vars map[string]string) string {
	compiled := p.Prompt
	for k, v := range vars {
		compiled = strings.ReplaceAll(compiled, "{{"+k+"}}", v)
	}
	return compiled
}

// GetPrompt retrieves a prompt from Langfuse by name.
func (c *Client) GetPrompt(ctx context.Context, name string) (*Prompt, error) {
	url := fmt.Sprintf("%s/api/public/v2/prompts/%s", c.host, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("langfuse: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("langfuse: failed to fetch prompt %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("langfuse: prompt %q returned status %d: %s", name, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("langfuse: failed to read prompt %q: %w", name, err)
	}
	var prompt Prompt
	if err := json.Unmarshal(body, &prompt); err != nil {
		return nil, fmt.Errorf("langfuse: failed to parse prompt %q: %w", name, err)
	}
	return &prompt, nil
}
