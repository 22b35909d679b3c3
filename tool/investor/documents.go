package investor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/tool"
	"github.com/levelvc/level-agent-tools/tool/function"
)

// ===== Document search tool =====

type searchDocumentsRequest struct {
	Query         string `json:"query" jsonschema:"description=Natural-language topic"`
	SearchType    string `json:"search_type,omitempty" jsonschema:"description=Similarity strictness,enum=tight,enum=balanced,enum=loose"`
	Limit         string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 25; max 50)"`
	Author        string `json:"author,omitempty" jsonschema:"description=Optional exact author filter"`
	Tags          string `json:"tags,omitempty" jsonschema:"description=Optional comma-separated tag filter"`
	ExtractQuotes *bool  `json:"extract_quotes,omitempty" jsonschema:"description=Return the most relevant snippets (default true)"`
}

func createSearchDocumentsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.searchDocuments,
		function.WithName("search_documents"),
		function.WithDescription("Concept search across internal documents with optional author/tag filters. "+
			"Use when hunting for memos, notes or writeups matching a thesis or topic, or to validate a topical "+
			"area. Returns a list with document metadata, similarity and quotes/full content."),
	)
}

func (ts *ToolSet) searchDocuments(ctx context.Context, req searchDocumentsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	searchType := orDefault(req.SearchType, "balanced")
	limit := orDefault(req.Limit, "25")

	searchDetails := fmt.Sprintf("query='%s', search_type='%s', limit=%s", req.Query, searchType, limit)
	if req.Author != "" {
		searchDetails += fmt.Sprintf(", author=%s", req.Author)
	}
	if req.Tags != "" {
		searchDetails += fmt.Sprintf(", tags=%s", req.Tags)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📄 Searching documents (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/search-documents", map[string]any{
		"query":          req.Query,
		"search_type":    searchType,
		"limit":          limit,
		"author":         nullable(req.Author),
		"tags":           nullable(req.Tags),
		"extract_quotes": boolDefault(req.ExtractQuotes, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Document search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Document search completed - found %s documents", resultCount(resp)), true)
	}
	return resp.Body(), nil
}

// ===== Recent documents tool =====

type recentDocumentsRequest struct {
	Limit  string `json:"limit,omitempty" jsonschema:"description=Max items (stringified int; default 50; max 100)"`
	Author string `json:"author,omitempty" jsonschema:"description=Optional exact author filter"`
	Tags   string `json:"tags,omitempty" jsonschema:"description=Optional comma-separated tag filter"`
}

func createRecentDocumentsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.listRecentDocuments,
		function.WithName("list_recent_documents"),
		function.WithDescription("Browse the most recently added or updated documents. "+
			"Use for a quick pulse on what's new, or to scan by person or topical tag. "+
			"Returns a list of recent documents and their metadata."),
	)
}

func (ts *ToolSet) listRecentDocuments(ctx context.Context, req recentDocumentsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	limit := orDefault(req.Limit, "50")

	filterDetails := fmt.Sprintf("limit=%s", limit)
	if req.Author != "" {
		filterDetails += fmt.Sprintf(", author=%s", req.Author)
	}
	if req.Tags != "" {
		filterDetails += fmt.Sprintf(", tags=%s", req.Tags)
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📅 Fetching recent documents (%s)", filterDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/recent-documents", map[string]any{
		"limit":  limit,
		"author": nullable(req.Author),
		"tags":   nullable(req.Tags),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch recent documents: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched %s recent documents", resultCount(resp)), true)
	}
	return resp.Body(), nil
}

// ===== Document details tool =====

type documentDetailsRequest struct {
	UUID string `json:"uuid" jsonschema:"description=Document UUID"`
}

func createDocumentDetailsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.getDocumentDetails,
		function.WithName("get_document_details"),
		function.WithDescription("Get complete details of a specific document. "+
			"Best for deep analysis after a document search hit, retrieving the download link or rendering "+
			"full text. Returns metadata, content and download link."),
	)
}

func (ts *ToolSet) getDocumentDetails(ctx context.Context, req documentDetailsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("📄 Fetching document details for %s", req.UUID), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/document-details",
		map[string]any{"uuid": req.UUID})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch document details: %s", resp.Err()), true)
	} else {
		docTitle := req.UUID
		if m, ok := resp.Map(); ok {
			docTitle = stringField(m, "title", req.UUID)
		}
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched document: %s", docTitle), true)
	}
	return resp.Body(), nil
}
