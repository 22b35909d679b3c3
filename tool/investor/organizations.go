package investor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/levelvc/level-agent-tools/event"
	"github.com/levelvc/level-agent-tools/tool"
	"github.com/levelvc/level-agent-tools/tool/function"
)

// ===== Similar organizations tool =====

type similarOrganizationsRequest struct {
	Query                 string `json:"query" jsonschema:"description=Concept text or a specific organization identifier"`
	SearchType            string `json:"search_type,omitempty" jsonschema:"description=Similarity strictness,enum=tight,enum=balanced,enum=loose"`
	Limit                 string `json:"limit,omitempty" jsonschema:"description=Max results (stringified int; default 100; up to 5000)"`
	CountryCode           string `json:"country_code,omitempty" jsonschema:"description=3-letter ISO country code (e.g. USA or GBR)"`
	FundingStage          string `json:"funding_stage,omitempty" jsonschema:"description=Funding stage filter,enum=seed,enum=early,enum=growth,enum=ipo,enum=acquisition,enum=crypto_exit,enum=unknown"`
	LevelPortfolio        string `json:"level_portfolio,omitempty" jsonschema:"description=Set to 'true' to restrict to Level portfolio companies"`
	MinFundingUSD         string `json:"min_funding_usd,omitempty" jsonschema:"description=Minimum total funding in USD (stringified number)"`
	MaxFundingUSD         string `json:"max_funding_usd,omitempty" jsonschema:"description=Maximum total funding in USD (stringified number)"`
	MinMarketCap          string `json:"min_market_cap,omitempty" jsonschema:"description=Minimum current market cap filter"`
	MaxMarketCap          string `json:"max_market_cap,omitempty" jsonschema:"description=Maximum current market cap filter"`
	Status                string `json:"status,omitempty" jsonschema:"description=Company status,enum=Active,enum=Not Active"`
	UseReferenceOrg       bool   `json:"use_reference_org,omitempty" jsonschema:"description=Anchor similarity to a specific organization"`
	ReferenceSearchMethod string `json:"reference_search_method,omitempty" jsonschema:"description=Lookup method for the reference organization,enum=name,enum=website"`
	UseLLMFiltering       *bool  `json:"use_llm_filtering,omitempty" jsonschema:"description=Apply LLM relevance filtering to the raw set (default true)"`
}

func createSimilarOrganizationsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.findSimilarOrganizations,
		function.WithName("find_similar_organizations"),
		function.WithDescription("Generate a ranked set of companies similar to a concept or a specific organization. "+
			"Core use cases: prospecting ('who looks like Company X?'), market maps ('who fits this thesis in "+
			"region Y/stage Z?'), competitor sets and space density. "+
			"Returns a list with organization details, similarity, and syndicate augmentation: "+
			"syndicate_members (unique investors), median_fmm_score and max_fmm_score."),
	)
}

func (ts *ToolSet) findSimilarOrganizations(ctx context.Context, req similarOrganizationsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	searchType := orDefault(req.SearchType, "balanced")
	limit := orDefault(req.Limit, "100")
	status := orDefault(req.Status, "Active")

	searchDetails := fmt.Sprintf("query='%s', search_type='%s', limit=%s", req.Query, searchType, limit)
	if req.CountryCode != "" {
		searchDetails += fmt.Sprintf(", country=%s", req.CountryCode)
	}
	if req.FundingStage != "" {
		searchDetails += fmt.Sprintf(", stage=%s", req.FundingStage)
	}
	if req.UseReferenceOrg {
		searchDetails += ", reference_org=true"
	}
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🏢 Finding similar organizations (%s)", searchDetails), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/similar-organizations", map[string]any{
		"query":                   req.Query,
		"search_type":             searchType,
		"limit":                   limit,
		"country_code":            nullable(req.CountryCode),
		"funding_stage":           nullable(req.FundingStage),
		"level_portfolio":         nullable(req.LevelPortfolio),
		"min_funding_usd":         nullable(req.MinFundingUSD),
		"max_funding_usd":         nullable(req.MaxFundingUSD),
		"min_market_cap":          nullable(req.MinMarketCap),
		"max_market_cap":          nullable(req.MaxMarketCap),
		"status":                  status,
		"use_reference_org":       req.UseReferenceOrg,
		"reference_search_method": orDefault(req.ReferenceSearchMethod, "name"),
		"use_llm_filtering":       boolDefault(req.UseLLMFiltering, true),
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Organization search failed: %s", resp.Err()), true)
	} else {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Found %s similar organizations", resultCount(resp)), true)
	}
	return resp.Body(), nil
}

// ===== Organization details tool =====

type organizationDetailsRequest struct {
	Identifier string `json:"identifier" jsonschema:"description=Organization UUID; canonical name or website"`
	SearchBy   string `json:"search_by,omitempty" jsonschema:"description=Identifier kind,enum=uuid,enum=name,enum=website"`
}

func createOrganizationDetailsTool(ts *ToolSet) tool.CallableTool {
	return function.NewFunctionTool(
		ts.getOrganizationDetails,
		function.WithName("get_organization_details"),
		function.WithDescription("Retrieve an organization's complete profile with investor syndicate quality signals. "+
			"Use when you need a company dossier for diligence or CRM enrichment. "+
			"Returns comprehensive organization fields (description, funding, labels) plus syndicate_members, "+
			"median_fmm_score and max_fmm_score."),
	)
}

func (ts *ToolSet) getOrganizationDetails(ctx context.Context, req organizationDetailsRequest) (any, error) {
	emitter := ts.emitterFor(ctx)
	searchBy := orDefault(req.SearchBy, "uuid")
	event.EmitStatus(ctx, emitter,
		fmt.Sprintf("🏢 Fetching organization details for %s (by %s)", req.Identifier, searchBy), false)

	resp := ts.client.Do(ctx, http.MethodPost, "/investor/organization-details", map[string]any{
		"identifier": req.Identifier,
		"search_by":  searchBy,
	})

	if resp.Failed() {
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("❌ Failed to fetch organization details: %s", resp.Err()), true)
	} else {
		orgName := req.Identifier
		if m, ok := resp.Map(); ok {
			orgName = stringField(m, "name", req.Identifier)
		}
		event.EmitStatus(ctx, emitter,
			fmt.Sprintf("✅ Successfully fetched details for %s", orgName), true)
	}
	return resp.Body(), nil
}
