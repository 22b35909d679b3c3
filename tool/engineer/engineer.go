// Package engineer provides Level data-warehouse query tools for AI agents.
package engineer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/internal/levelapi"
	"github.com/levelvc/level-agent-tools/tool"
	"github.com/levelvc/level-agent-tools/tool/function"
)

const defaultName = "level_engineer"

// queryPreviewLen caps how much of a query is echoed in status events.
const queryPreviewLen = 100

// config holds the configuration for the engineer tool set.
type config struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	emitter    event.Emitter
}

// Option is a functional option for configuring the engineer tool set.
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

// ToolSet exposes Level's Athena and RDS query endpoints as tools.
type ToolSet struct {
	client  *levelapi.Client
	emitter event.Emitter
	tools   []tool.Tool
}

// NewToolSet creates a new engineer tool set with the given options.
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
		createAthenaQueryTool(ts),
		createRDSQueryTool(ts),
		createAthenaTableInfoTool(ts),
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
	// No resources to clean up for engineer tools.
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

// ===== Athena query tool =====

type athenaQueryRequest struct {
	Query string `json:"query" jsonschema:"description=The SQL query to execute against Athena/Presto"`
}

func createAthenaQueryTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.readAthenaQuery,
		function.WithName("read_athena_query"),
		function.WithDescription("Execute SQL queries against Athena/Presto and return results. "+
			"Use this tool to query Level's data warehouse using Athena/Presto SQL. "+
			"The results include 'data' (records), 'columns' (column names) and 'row_count'. "+
			"Recommend using LIMIT clauses to avoid overwhelming responses."),
	)
}

func (ts *ToolSet) readAthenaQuery(ctx context.Context, req athenaQueryRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🔍 Executing Athena query: %s", queryPreview(req.Query)), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/engineer/read-athena-query",
		map[string]any{"query": req.Query})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Athena query failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Athena query completed - returned %s rows", rowCount(resp)), true)
	}
	return resp.Body(), nil
}

// ===== RDS query tool =====

type rdsQueryRequest struct {
	Query string `json:"query" jsonschema:"description=The SQL query to execute against PostgreSQL RDS"`
}

func createRDSQueryTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.readRDSQuery,
		function.WithName("read_rds_query"),
		function.WithDescription("Execute SQL queries against PostgreSQL RDS and return results. "+
			"Use this tool to query Level's PostgreSQL database for transactional data. "+
			"The results include 'data' (records), 'columns' (column names) and 'row_count'. "+
			"Recommend using LIMIT clauses to avoid overwhelming responses."),
	)
}

func (ts *ToolSet) readRDSQuery(ctx context.Context, req rdsQueryRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🐘 Executing PostgreSQL query: %s", queryPreview(req.Query)), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/engineer/read-rds-query",
		map[string]any{"query": req.Query})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ PostgreSQL query failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ PostgreSQL query completed - returned %s rows", rowCount(resp)), true)
	}
	return resp.Body(), nil
}

// ===== Athena table info tool =====

type tableInfoRequest struct {
	TableName string `json:"table_name" jsonschema:"description=Table name in format 'database.table'"`
}

func createAthenaTableInfoTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.getAthenaTableInfo,
		function.WithName("get_athena_table_info"),
		function.WithDescription("Get detailed schema information and sample data for Athena/Presto/Trino tables. "+
			"Use this tool to understand table structure before writing queries. "+
			"Returns column details (name, type, nullable), sample values and sample records."),
	)
}

func (ts *ToolSet) getAthenaTableInfo(ctx context.Context, req tableInfoRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📊 Fetching table schema for %s", req.TableName), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/engineer/get-athena-table-info",
		map[string]any{"table_name": req.TableName})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch table info: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched schema for %s - %s columns",
				req.TableName, columnCount(resp)), true)
	}
	return resp.Body(), nil
}

// queryPreview truncates long queries for status events.
func queryPreview(query string) string {
	if len(query) > queryPreviewLen {
		return query[:queryPreviewLen] + "..."
	}
	return query
}

// rowCount derives the row count summary from a query response, falling back
// to "unknown" when the response carries none.
func rowCount(resp levelapi.Response) string {
	m, ok := resp.Map()
	if !ok {
		return "unknown"
	}
	v, ok := m["row_count"]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%v", v)
}

// columnCount derives the column count summary from a table info response.
func columnCount(resp levelapi.Response) string {
	m, ok := resp.Map()
	if !ok {
		return "unknown"
	}
	cols, _ := m["columns"].([]any)
	return strconv.Itoa(len(cols))
}
