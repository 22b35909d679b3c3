package investor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/tool"
	"github.com/levelvc/level-agent-tools/tool/function"
)

// ===== Semantic transcript search tool =====

type semanticSearchTranscriptsRequest struct {
	Query         string `json:"query" jsonschema:"description=Natural-language topic or question to match against transcript content"`
	SearchType    string `json:"search_type,omitempty" jsonschema:"description=Similarity strictness,enum=tight,enum=balanced,enum=loose"`
	Limit         string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 30; max 50)"`
	Symbol        string `json:"symbol,omitempty" jsonschema:"description=Optional ticker filter"`
	Year          string `json:"year,omitempty" jsonschema:"description=Optional four-digit year filter"`
	Quarter       string `json:"quarter,omitempty" jsonschema:"description=Optional quarter filter (Q1-Q4)"`
	MinYear       string `json:"min_year,omitempty" jsonschema:"description=Optional minimum year filter"`
	MaxYear       string `json:"max_year,omitempty" jsonschema:"description=Optional maximum year filter"`
	ExtractQuotes *bool  `json:"extract_quotes,omitempty" jsonschema:"description=Return only the most relevant snippets (default true)"`
}

func createSemanticSearchTranscriptsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.semanticSearchTranscripts,
		function.WithName("semantic_search_transcripts"),
		function.WithDescription("Find earnings-call transcript passages semantically related to an idea or topic. "+
			"Use for concept-level matches rather than exact keywords: researching themes such as pricing, "+
			"unit economics, guidance or competition across calls. "+
			"Returns a list where each item includes company, date, similarity score and either extracted quotes "+
			"or full content (when extract_quotes is false)."),
	)
}

func (ts *ToolSet) semanticSearchTranscripts(ctx context.Context, req semanticSearchTranscriptsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	searchType := orDefault(req.SearchType, "balanced")
	limit := orDefault(req.Limit, "30")

	searchDetails := fmt.Sprintf("query='%s', search_type='%s', limit=%s", req.Query, searchType, limit)
	if req.Symbol != "" {
		searchDetails += fmt.Sprintf(", symbol=%s", req.Symbol)
	}
	if req.Year != "" {
		searchDetails += fmt.Sprintf(", year=%s", req.Year)
	}
	if req.Quarter != "" {
		searchDetails += fmt.Sprintf(", quarter=%s", req.Quarter)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🔍 Searching earnings transcripts with semantic search (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/semantic-search-transcripts", map[string]any{
		"query":          req.Query,
		"search_type":    searchType,
		"limit":          limit,
		"symbol":         nullable(req.Symbol),
		"year":           nullable(req.Year),
		"quarter":        nullable(req.Quarter),
		"min_year":       nullable(req.MinYear),
		"max_year":       nullable(req.MaxYear),
		"extract_quotes": boolDefault(req.ExtractQuotes, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Semantic search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Semantic search completed - found %s results", resultCount(resp)), true)
		emitTranscriptCitations(ctx, emitter, resp)
	}
	return resp.Body(), nil
}

// ===== Keyword transcript search tool =====

type keywordSearchTranscriptsRequest struct {
	Keywords      string `json:"keywords" jsonschema:"description=Space-separated terms to match literally"`
	Limit         string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 25; max 50)"`
	Symbol        string `json:"symbol,omitempty" jsonschema:"description=Optional ticker filter"`
	Year          string `json:"year,omitempty" jsonschema:"description=Optional four-digit year filter"`
	Quarter       string `json:"quarter,omitempty" jsonschema:"description=Optional quarter filter (Q1-Q4)"`
	MinYear       string `json:"min_year,omitempty" jsonschema:"description=Optional minimum year filter"`
	MaxYear       string `json:"max_year,omitempty" jsonschema:"description=Optional maximum year filter"`
	MatchType     string `json:"match_type,omitempty" jsonschema:"description=How multiple keywords combine,enum=any,enum=all"`
	ExtractQuotes *bool  `json:"extract_quotes,omitempty" jsonschema:"description=Return only matching snippets (default true)"`
}

func createKeywordSearchTranscriptsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.keywordSearchTranscripts,
		function.WithName("keyword_search_transcripts"),
		function.WithDescription("Search earnings-call transcripts for exact keyword matches. "+
			"Best for pinpointing specific phrases (product names, SKUs, tickers) and tracking literal mentions "+
			"across calls or time periods. Returns a list of results with metadata and snippets or full content."),
	)
}

func (ts *ToolSet) keywordSearchTranscripts(ctx context.Context, req keywordSearchTranscriptsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	matchType := orDefault(req.MatchType, "any")
	limit := orDefault(req.Limit, "25")

	searchDetails := fmt.Sprintf("keywords='%s', match_type='%s', limit=%s", req.Keywords, matchType, limit)
	if req.Symbol != "" {
		searchDetails += fmt.Sprintf(", symbol=%s", req.Symbol)
	}
	if req.Year != "" {
		searchDetails += fmt.Sprintf(", year=%s", req.Year)
	}
	if req.Quarter != "" {
		searchDetails += fmt.Sprintf(", quarter=%s", req.Quarter)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🔍 Searching earnings transcripts with keyword search (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/keyword-search-transcripts", map[string]any{
		"keywords":       req.Keywords,
		"limit":          limit,
		"symbol":         nullable(req.Symbol),
		"year":           nullable(req.Year),
		"quarter":        nullable(req.Quarter),
		"min_year":       nullable(req.MinYear),
		"max_year":       nullable(req.MaxYear),
		"match_type":     matchType,
		"extract_quotes": boolDefault(req.ExtractQuotes, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Keyword search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Keyword search completed - found %s results", resultCount(resp)), true)
		emitTranscriptCitations(ctx, emitter, resp)
	}
	return resp.Body(), nil
}

// ===== Transcript details tool =====

type transcriptDetailsRequest struct {
	Symbol  string `json:"symbol" jsonschema:"description=Ticker (e.g. AAPL)"`
	Year    string `json:"year" jsonschema:"description=Four-digit year"`
	Quarter string `json:"quarter" jsonschema:"description=Fiscal quarter,enum=Q1,enum=Q2,enum=Q3,enum=Q4"`
}

func createTranscriptDetailsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.getTranscriptDetails,
		function.WithName("get_transcript_details"),
		function.WithDescription("Fetch the full text for a specific earnings transcript. "+
			"Use when you need complete context after a search hit or are extracting long-form sections "+
			"(prepared remarks, Q&A). Returns the full transcript and associated metadata."),
	)
}

func (ts *ToolSet) getTranscriptDetails(ctx context.Context, req transcriptDetailsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	symbol := strings.ToUpper(req.Symbol)
	quarter := strings.ToUpper(req.Quarter)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📄 Fetching transcript details for %s %s %s", symbol, req.Year, quarter), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/transcript-details", map[string]any{
		"symbol":  symbol,
		"year":    req.Year,
		"quarter": quarter,
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch transcript: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched transcript for %s %s %s", symbol, req.Year, quarter), true)
		if m, ok := resp.Map(); ok {
			event.EmitCitation(ctx, emitter,
				stringField(m, "quotes", ""),
				stringField(m, "citation", ""),
				transcriptSourceURL)
		}
	}
	return resp.Body(), nil
}
