package investor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/tool"
	"github.com/levelvc/level-agent-tools/tool/function"
)

// ===== Semantic knowledge search tool =====

type semanticSearchKnowledgeRequest struct {
	Query         string `json:"query" jsonschema:"description=Natural-language topic or question"`
	SearchType    string `json:"search_type,omitempty" jsonschema:"description=Similarity strictness,enum=tight,enum=balanced,enum=loose"`
	Limit         string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 25; max 50)"`
	EntityType    string `json:"entity_type,omitempty" jsonschema:"description=Optional entity filter,enum=organization,enum=domain_group,enum=document"`
	ExtractQuotes *bool  `json:"extract_quotes,omitempty" jsonschema:"description=Return key snippets rather than full content (default true)"`
}

func createSemanticSearchKnowledgeTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.semanticSearchKnowledge,
		function.WithName("semantic_search_knowledge"),
		function.WithDescription("Retrieve semantically relevant items from Level's knowledge base. "+
			"Use when researching companies, domain groups or documents by concept, or when you need context "+
			"spanning multiple entity types. Returns a list containing entity metadata, similarity and quotes/content."),
	)
}

func (ts *ToolSet) semanticSearchKnowledge(ctx context.Context, req semanticSearchKnowledgeRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	searchType := orDefault(req.SearchType, "balanced")
	limit := orDefault(req.Limit, "25")

	searchDetails := fmt.Sprintf("query='%s', search_type='%s', limit=%s", req.Query, searchType, limit)
	if req.EntityType != "" {
		searchDetails += fmt.Sprintf(", entity_type=%s", req.EntityType)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🧠 Searching knowledge base with semantic search (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/semantic-search-knowledge", map[string]any{
		"query":          req.Query,
		"search_type":    searchType,
		"limit":          limit,
		"entity_type":    nullable(req.EntityType),
		"extract_quotes": boolDefault(req.ExtractQuotes, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Knowledge search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Knowledge search completed - found %s results", resultCount(resp)), true)
		emitKnowledgeCitations(ctx, emitter, resp)
	}
	return resp.Body(), nil
}

// ===== Keyword knowledge search tool =====

type keywordSearchKnowledgeRequest struct {
	Keywords      string `json:"keywords" jsonschema:"description=Space-separated terms to match literally"`
	Limit         string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 25; max 50)"`
	EntityType    string `json:"entity_type,omitempty" jsonschema:"description=Optional entity filter,enum=organization,enum=domain_group,enum=document"`
	MatchType     string `json:"match_type,omitempty" jsonschema:"description=How multiple keywords combine,enum=any,enum=all"`
	ExtractQuotes *bool  `json:"extract_quotes,omitempty" jsonschema:"description=Return snippets if true (default true)"`
}

func createKeywordSearchKnowledgeTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.keywordSearchKnowledge,
		function.WithName("keyword_search_knowledge"),
		function.WithDescription("Keyword-based (exact match) search in Level's knowledge base. "+
			"Best for finding literal terms (codes, acronyms, exact phrases) or combining multiple specific "+
			"keywords. Returns a list of entities/documents with metadata and snippets or full content."),
	)
}

func (ts *ToolSet) keywordSearchKnowledge(ctx context.Context, req keywordSearchKnowledgeRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	matchType := orDefault(req.MatchType, "any")
	limit := orDefault(req.Limit, "25")

	searchDetails := fmt.Sprintf("keywords='%s', match_type='%s', limit=%s", req.Keywords, matchType, limit)
	if req.EntityType != "" {
		searchDetails += fmt.Sprintf(", entity_type=%s", req.EntityType)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🔍 Searching knowledge base with keywords (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/keyword-search-knowledge", map[string]any{
		"keywords":       req.Keywords,
		"limit":          limit,
		"entity_type":    nullable(req.EntityType),
		"match_type":     matchType,
		"extract_quotes": boolDefault(req.ExtractQuotes, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Knowledge keyword search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Knowledge keyword search completed - found %s results", resultCount(resp)), true)
		emitKnowledgeCitations(ctx, emitter, resp)
	}
	return resp.Body(), nil
}

// ===== Knowledge page fetch tool =====

type fetchKnowledgePageRequest struct {
	UUID string `json:"uuid" jsonschema:"description=Knowledge page UUID"`
}

func createFetchKnowledgePageTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.fetchKnowledgePage,
		function.WithName("fetch_knowledge_page"),
		function.WithDescription("Get the full content of a specific knowledge page by UUID. "+
			"Use when you need to display or analyze a single page after finding it via search. "+
			"Returns the page title, content and metadata."),
	)
}

func (ts *ToolSet) fetchKnowledgePage(ctx context.Context, req fetchKnowledgePageRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📃 Fetching knowledge page %s", req.UUID), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/fetch-knowledge-page",
		map[string]any{"uuid": req.UUID})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch knowledge page: %s", resp.Err()), true)
	} else {
		pageTitle := req.UUID
		if m, ok := resp.Map(); ok {
			pageTitle = stringField(m, "title", req.UUID)
		}
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched knowledge page: %s", pageTitle), true)
		if m, ok := resp.Map(); ok {
			event.EmitCitation(ctx, emitter,
				stringField(m, "quotes", ""),
				fmt.Sprintf("Knowledge Page %s", stringField(m, "title", "Unknown")),
				stringField(m, "public_url", ""))
		}
	}
	return resp.Body(), nil
}
