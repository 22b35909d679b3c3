// Package investor provides Level investment-research tools for AI agents:
// earnings transcript search, knowledge base search, organization similarity
// and document retrieval.
package investor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/internal/levelapi"
	"github.com/levelvc/level-agent-tools/tool"
)

const defaultName = "level_investor"

// transcriptSourceURL is the source URL attached to transcript citations.
const transcriptSourceURL = "https://levelvc.com"

// config holds the configuration for the investor tool set.
type config struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	emitter    event.Emitter
}

// Option is a functional option for configuring the investor tool set.
type Option func(*config)

// WithAPIKey sets the Level API key used as the bearer credential.
func WithAPIKey(apiKey string) Option {
	return func(c *config) {
		c.apiKey = apiKey
	}
}

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithEmitter sets the default event sink used when the invocation context
// does not carry one.
func WithEmitter(emitter event.Emitter) Option {
	return func(c *config) {
		c.emitter = emitter
	}
}

// ToolSet exposes Level's investment research endpoints as tools.
type ToolSet struct {
	client  *levelapi.Client
	emitter event.Emitter
	tools   []tool.Tool
}

// NewToolSet creates a new investor tool set with the given options.
func NewToolSet(opts ...Option) (*ToolSet, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	var clientOpts []levelapi.Option
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, levelapi.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, levelapi.WithHTTPClient(cfg.httpClient))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, levelapi.WithTimeout(cfg.timeout))
	}
	ts := &ToolSet{
		client:  levelapi.New(cfg.apiKey, clientOpts...),
		emitter: cfg.emitter,
	}
	ts.tools = []tool.Tool{
		createSemanticSearchTranscriptsTool(ts),
		createKeywordSearchTranscriptsTool(ts),
		createTranscriptDetailsTool(ts),
		createSemanticSearchKnowledgeTool(ts),
		createKeywordSearchKnowledgeTool(ts),
		createFetchKnowledgePageTool(ts),
		createSimilarOrganizationsTool(ts),
		createOrganizationDetailsTool(ts),
		createSearchDocumentsTool(ts),
		createRecentDocumentsTool(ts),
		createDocumentDetailsTool(ts),
	}
	return ts, nil
}

// Tools implements the ToolSet interface.
func (ts *ToolSet) Tools(_ context.Context) []tool.Tool {
	return ts.tools
}

// Name implements the ToolSet interface.
func (ts *ToolSet) Name() string {
	return defaultName
}

// Close implements the ToolSet interface.
func (ts *ToolSet) Close() error {
	// No resources to clean up for investor tools.
	return nil
}

// emitterFor resolves the event sink for a single invocation. A sink in the
// context takes precedence over the tool set default.
func (ts *ToolSet) emitterFor(ctx context.Context) event.Emitter {
	if emitter, ok := event.EmitterFromContext(ctx); ok {
		return emitter
	}
	return ts.emitter
}

// nullable forwards optional string filters as JSON null when unset, matching
// what the API expects for omitted filters.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// orDefault returns def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// boolDefault resolves an optional boolean input against its default.
func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// resultCount derives the result count summary from a list-shaped response,
// falling back to "unknown" for anything else.
func resultCount(resp levelapi.Response) string {
	l, ok := resp.List()
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%d", len(l))
}

// stringField reads a string field from a result item, returning def when the
// field is absent or not a string.
func stringField(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

// emitTranscriptCitations emits one citation per transcript search result.
func emitTranscriptCitations(ctx context.Context, emitter event.Emitter, resp levelapi.Response) {
	items, ok := resp.List()
	if !ok {
		return
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		event.EmitCitation(ctx, emitter,
			stringField(m, "quotes", ""),
			stringField(m, "citation", ""),
			transcriptSourceURL)
	}
}

// emitKnowledgeCitations emits one citation per knowledge search result.
func emitKnowledgeCitations(ctx context.Context, emitter event.Emitter, resp levelapi.Response) {
	items, ok := resp.List()
	if !ok {
		return
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		event.EmitCitation(ctx, emitter,
			stringField(m, "quotes", ""),
			fmt.Sprintf("Knowledge Page %s", stringField(m, "title", "Unknown")),
			stringField(m, "public_url", ""))
	}
}
