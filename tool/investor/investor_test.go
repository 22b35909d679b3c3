package investor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/tool"
)

// collector records every event delivered to the sink.
type collector struct {
	events []*event.Event
}

func (c *collector) emit(_ context.Context, evt *event.Event) error {
	c.events = append(c.events, evt)
	return nil
}

func (c *collector) statuses() []*event.Status {
	var out []*event.Status
	for _, evt := range c.events {
		if evt.Type == event.TypeStatus {
			out = append(out, evt.Status)
		}
	}
	return out
}

func (c *collector) citations() []*event.Citation {
	var out []*event.Citation
	for _, evt := range c.events {
		if evt.Type == event.TypeCitation {
			out = append(out, evt.Citation)
		}
	}
	return out
}

func callTool(t *testing.T, ts *ToolSet, name string, args any, emitter event.Emitter) any {
	t.Helper()
	ctx := context.Background()
	if emitter != nil {
		ctx = event.NewContext(ctx, emitter)
	}
	for _, tl := range ts.Tools(ctx) {
		if tl.Declaration().Name != name {
			continue
		}
		ct, ok := tl.(tool.CallableTool)
		require.True(t, ok)
		argsJSON, err := json.Marshal(args)
		require.NoError(t, err)
		result, err := ct.Call(ctx, argsJSON)
		require.NoError(t, err)
		return result
	}
	t.Fatalf("tool %q not found", name)
	return nil
}

func newTestToolSet(t *testing.T, handler http.HandlerFunc) (*ToolSet, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	ts, err := NewToolSet(WithAPIKey("test-key"), WithBaseURL(server.URL))
	require.NoError(t, err)
	return ts, server
}

func TestSemanticSearchTranscripts_Success(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/semantic-search-transcripts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[
			{"citation": "AAPL 2024 Q1", "quotes": "services revenue grew", "similarity": 0.7},
			{"citation": "MSFT 2024 Q2", "quotes": "cloud margin expanded", "similarity": 0.6}
		]`))
	})

	sink := &collector{}
	result := callTool(t, ts, "semantic_search_transcripts",
		map[string]any{"query": "pricing power"}, sink.emit)

	// Defaults applied to the dispatched payload, unset filters forwarded as null.
	assert.Equal(t, "pricing power", gotPayload["query"])
	assert.Equal(t, "balanced", gotPayload["search_type"])
	assert.Equal(t, "30", gotPayload["limit"])
	assert.Equal(t, true, gotPayload["extract_quotes"])
	symbol, present := gotPayload["symbol"]
	assert.True(t, present)
	assert.Nil(t, symbol)

	l, ok := result.([]any)
	require.True(t, ok)
	assert.Len(t, l, 2)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.False(t, statuses[0].Done)
	assert.Contains(t, statuses[0].Description, "semantic search")
	assert.Contains(t, statuses[0].Description, "query='pricing power'")
	assert.True(t, statuses[1].Done)
	assert.Contains(t, statuses[1].Description, "found 2 results")

	citations := sink.citations()
	require.Len(t, citations, 2)
	assert.Equal(t, []string{"services revenue grew"}, citations[0].Document)
	assert.Equal(t, "AAPL 2024 Q1", citations[0].Source.Name)
	assert.Equal(t, transcriptSourceURL, citations[0].Source.URL)

	// Citations come after the terminal status event.
	assert.Equal(t, event.TypeStatus, sink.events[0].Type)
	assert.Equal(t, event.TypeStatus, sink.events[1].Type)
	assert.Equal(t, event.TypeCitation, sink.events[2].Type)
}

func TestSemanticSearchTranscripts_FiltersInStatus(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	sink := &collector{}
	callTool(t, ts, "semantic_search_transcripts", map[string]any{
		"query":   "guidance",
		"symbol":  "AAPL",
		"year":    "2024",
		"quarter": "Q1",
	}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "symbol=AAPL")
	assert.Contains(t, statuses[0].Description, "year=2024")
	assert.Contains(t, statuses[0].Description, "quarter=Q1")
}

func TestSemanticSearchTranscripts_Error(t *testing.T) {
	ts, server := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close() // connection refused

	sink := &collector{}
	result := callTool(t, ts, "semantic_search_transcripts",
		map[string]any{"query": "pricing power"}, sink.emit)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, m["error"], "API request failed:")

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[1].Description, "❌ Semantic search failed:")

	assert.Empty(t, sink.citations())
}

func TestKeywordSearchTranscripts_Success(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/keyword-search-transcripts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[{"citation": "NVDA 2024 Q3", "quotes": "Blackwell demand"}]`))
	})

	sink := &collector{}
	callTool(t, ts, "keyword_search_transcripts",
		map[string]any{"keywords": "Blackwell", "match_type": "all"}, sink.emit)

	assert.Equal(t, "Blackwell", gotPayload["keywords"])
	assert.Equal(t, "all", gotPayload["match_type"])
	assert.Equal(t, "25", gotPayload["limit"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "keyword search")
	assert.Contains(t, statuses[1].Description, "found 1 results")
	require.Len(t, sink.citations(), 1)
}

func TestGetTranscriptDetails_UppercasesInputs(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/transcript-details", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"citation": "AAPL 2024 Q1", "quotes": "full transcript text"}`))
	})

	sink := &collector{}
	callTool(t, ts, "get_transcript_details",
		map[string]any{"symbol": "aapl", "year": "2024", "quarter": "q1"}, sink.emit)

	assert.Equal(t, "AAPL", gotPayload["symbol"])
	assert.Equal(t, "Q1", gotPayload["quarter"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "AAPL 2024 Q1")
	assert.Contains(t, statuses[1].Description, "Successfully fetched transcript for AAPL 2024 Q1")

	citations := sink.citations()
	require.Len(t, citations, 1)
	assert.Equal(t, "AAPL 2024 Q1", citations[0].Source.Name)
	assert.Equal(t, []string{"full transcript text"}, citations[0].Document)
}

func TestSemanticSearchKnowledge_Citations(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/semantic-search-knowledge", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"title": "Fintech Infra", "public_url": "https://kb.levelvc.com/p/1", "quotes": "rails are commoditizing"}
		]`))
	})

	sink := &collector{}
	callTool(t, ts, "semantic_search_knowledge", map[string]any{"query": "fintech"}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "🧠")
	assert.Contains(t, statuses[1].Description, "Knowledge search completed - found 1 results")

	citations := sink.citations()
	require.Len(t, citations, 1)
	assert.Equal(t, "Knowledge Page Fintech Infra", citations[0].Source.Name)
	assert.Equal(t, "https://kb.levelvc.com/p/1", citations[0].Source.URL)
}

func TestKeywordSearchKnowledge_Defaults(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/keyword-search-knowledge", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[]`))
	})

	sink := &collector{}
	callTool(t, ts, "keyword_search_knowledge", map[string]any{"keywords": "LTV CAC"}, sink.emit)

	assert.Equal(t, "any", gotPayload["match_type"])
	assert.Equal(t, "25", gotPayload["limit"])
	assert.Equal(t, true, gotPayload["extract_quotes"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[1].Description, "found 0 results")
	assert.Empty(t, sink.citations())
}

func TestFetchKnowledgePage_Success(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/fetch-knowledge-page", r.URL.Path)
		_, _ = w.Write([]byte(`{"title": "Agentic AI", "public_url": "https://kb.levelvc.com/p/2", "quotes": "agents as a wedge"}`))
	})

	sink := &collector{}
	callTool(t, ts, "fetch_knowledge_page", map[string]any{"uuid": "abc-123"}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "Fetching knowledge page abc-123")
	assert.Contains(t, statuses[1].Description, "Successfully fetched knowledge page: Agentic AI")

	citations := sink.citations()
	require.Len(t, citations, 1)
	assert.Equal(t, "Knowledge Page Agentic AI", citations[0].Source.Name)
}

func TestFindSimilarOrganizations_Defaults(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/similar-organizations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[{"name": "Acme"}, {"name": "Globex"}]`))
	})

	sink := &collector{}
	callTool(t, ts, "find_similar_organizations", map[string]any{"query": "agentic AI"}, sink.emit)

	assert.Equal(t, "100", gotPayload["limit"])
	assert.Equal(t, "Active", gotPayload["status"])
	assert.Equal(t, false, gotPayload["use_reference_org"])
	assert.Equal(t, "name", gotPayload["reference_search_method"])
	assert.Equal(t, true, gotPayload["use_llm_filtering"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "Finding similar organizations")
	assert.Contains(t, statuses[1].Description, "Found 2 similar organizations")

	// Organization listings carry no extractable quotes.
	assert.Empty(t, sink.citations())
}

func TestFindSimilarOrganizations_ReferenceOrgInStatus(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	sink := &collector{}
	callTool(t, ts, "find_similar_organizations", map[string]any{
		"query":             "Anthropic",
		"use_reference_org": true,
		"country_code":      "USA",
	}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "country=USA")
	assert.Contains(t, statuses[0].Description, "reference_org=true")
}

func TestGetOrganizationDetails_Success(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/organization-details", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"name": "Acme", "funding_stage": "growth"}`))
	})

	sink := &collector{}
	callTool(t, ts, "get_organization_details", map[string]any{"identifier": "acme.com", "search_by": "website"}, sink.emit)

	assert.Equal(t, "acme.com", gotPayload["identifier"])
	assert.Equal(t, "website", gotPayload["search_by"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "by website")
	assert.Contains(t, statuses[1].Description, "Successfully fetched details for Acme")
}

func TestGetOrganizationDetails_DefaultSearchBy(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{}`))
	})

	sink := &collector{}
	callTool(t, ts, "get_organization_details", map[string]any{"identifier": "abc-123"}, sink.emit)

	assert.Equal(t, "uuid", gotPayload["search_by"])

	// Name falls back to the identifier when the response has none.
	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[1].Description, "Successfully fetched details for abc-123")
}

func TestSearchDocuments_Success(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/search-documents", r.URL.Path)
		_, _ = w.Write([]byte(`[{"title": "Memo"}, {"title": "Notes"}, {"title": "Deck"}]`))
	})

	sink := &collector{}
	callTool(t, ts, "search_documents", map[string]any{"query": "pricing", "author": "jane"}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "author=jane")
	assert.Contains(t, statuses[1].Description, "found 3 documents")
	assert.Empty(t, sink.citations())
}

func TestListRecentDocuments_Success(t *testing.T) {
	var gotPayload map[string]any
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/recent-documents", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[{"title": "Memo"}]`))
	})

	sink := &collector{}
	callTool(t, ts, "list_recent_documents", map[string]any{}, sink.emit)

	assert.Equal(t, "50", gotPayload["limit"])

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[0].Description, "Fetching recent documents")
	assert.Contains(t, statuses[1].Description, "Successfully fetched 1 recent documents")
}

func TestGetDocumentDetails_TitleFallback(t *testing.T) {
	ts, _ := newTestToolSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/investor/document-details", r.URL.Path)
		_, _ = w.Write([]byte(`{"content": "body only"}`))
	})

	sink := &collector{}
	callTool(t, ts, "get_document_details", map[string]any{"uuid": "doc-9"}, sink.emit)

	statuses := sink.statuses()
	require.Len(t, statuses, 2)
	assert.Contains(t, statuses[1].Description, "Successfully fetched document: doc-9")
}

func TestToolSet_Interface(t *testing.T) {
	ts, err := NewToolSet(WithAPIKey("test-key"))
	require.NoError(t, err)

	assert.Equal(t, "level_investor", ts.Name())
	assert.NoError(t, ts.Close())

	tools := ts.Tools(context.Background())
	require.Len(t, tools, 11)
	var names []string
	for _, tl := range tools {
		names = append(names, tl.Declaration().Name)
	}
	assert.ElementsMatch(t, names, []string{
		"semantic_search_transcripts",
		"keyword_search_transcripts",
		"get_transcript_details",
		"semantic_search_knowledge",
		"keyword_search_knowledge",
		"fetch_knowledge_page",
		"find_similar_organizations",
		"get_organization_details",
		"search_documents",
		"list_recent_documents",
		"get_document_details",
	})
}
