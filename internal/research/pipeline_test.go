package research

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prsolans/agreement-mapper/internal/cache"
	"github.com/prsolans/agreement-mapper/internal/config"
	"github.com/prsolans/agreement-mapper/internal/model"
	"github.com/prsolans/agreement-mapper/pkg/anthropic"
	"github.com/prsolans/agreement-mapper/pkg/tavily"
)

// stubLLM replays canned JSON keyed by system prompt and records call order
// plus the last user prompt per stage.
type stubLLM struct {
	mu        sync.Mutex
	calls     []string
	prompts   map[string]string
	responses map[string]string
}

func (s *stubLLM) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req.System)
	if s.prompts == nil {
		s.prompts = make(map[string]string)
	}
	if len(req.Messages) > 0 {
		s.prompts[req.System] = req.Messages[0].Content
	}
	s.mu.Unlock()

	text, ok := s.responses[req.System]
	if !ok {
		text = "{}"
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}, nil
}

func (s *stubLLM) callIndex(system string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.calls {
		if c == system {
			return i
		}
	}
	return -1
}

func (s *stubLLM) prompt(system string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts[system]
}

const stubOpportunities = `{"opportunities": [
	{"opportunity_id": "opp_001", "title": "Sales Cycle Reduction", "use_case_name": "Accelerate Deals", "business_function": "Sales",
	 "value_quantification": {"total_annual_value": "$10M", "implementation_cost": "$1M"},
	 "implementation": {"priority": "high"},
	 "recommended_docusign_products": [{"product_name": "CLM", "category": "Lifecycle", "key_capabilities_used": ["routing"]}]},
	{"opportunity_id": "opp_002", "title": "Renewal Capture",
	 "value_quantification": {"total_annual_value": "$5M", "implementation_cost": "$500K"},
	 "implementation": {"priority": "medium"}},
	{"opportunity_id": "opp_003", "title": "Obligation Tracking",
	 "value_quantification": {"total_annual_value": "$2M", "implementation_cost": "$400K"},
	 "implementation": {"priority": "low"}}
]}`

func fullStubResponses() map[string]string {
	return map[string]string{
		profileSystem: `{"legal_name": "Acme Corp", "industry": "Manufacturing", "headquarters": "Chicago, USA",
			"scale": {"annual_revenue": "$2.3B"}, "business_model": {"primary_revenue_model": "B2B sales"}}`,
		brandSystem: `{"primary_color": "#003366", "secondary_color": "#FFFFFF", "accent_color": "#FF6600",
			"text_color": "#222222", "background_color": "#F5F5F5"}`,
		unitsSystem: `{"business_units": [
			{"unit_id": "bu_001", "name": "Industrial", "systems_used": ["ERP", "CLM"]},
			{"unit_id": "bu_002", "name": "Consumer"}]}`,
		prioritiesSystem: `{"priorities": [
			{"priority_id": "priority_001", "priority_name": "Growing the Core", "priority_description": "Expand industrial segment", "urgency": "high",
			 "executive_quotes": [{"executive": "Jane Smith, CEO", "quote": "Industrial is our engine.", "source": "Q4 earnings call", "date": "2025-02-01", "url": "https://investors.acme.com/q4"}]},
			{"priority_id": "priority_002", "priority_name": "Digital Backbone", "priority_description": "Modernize systems"},
			{"priority_id": "priority_003", "priority_name": "New Markets", "priority_description": "Enter APAC"}]}`,
		landscapeSystem: `{"functions": [
			{"function_name": "Sales", "pain_points": ["slow approvals"]},
			{"function_name": "Procurement", "pain_points": ["missed renewals"]},
			{"function_name": "HR"}, {"function_name": "Legal"}, {"function_name": "IT"}],
			"summary": {"total_functions": 5, "total_estimated_agreements": 12000}}`,
		matrixSystem: `{"agreement_types": [
			{"type": "NDA", "volume": 9, "complexity": 2}, {"type": "MSA", "volume": 6, "complexity": 8}],
			"matrix_metadata": {"highest_volume_type": "NDA"}}`,
		benchmarkSystem: `{"avg_contract_cycle_days": 21, "typical_clm_adoption": "moderate",
			"common_systems": ["SAP Ariba"], "benchmark_notes": "Cycle times trend long."}`,
		opportunitiesSystem: stubOpportunities,
		summarySystem: `{"overview": "Acme has significant optimization potential.",
			"key_findings": ["$17M combined value"], "recommended_focus": "Start with sales.", "estimated_value": "$17.0M"}`,
		questionsSystem: `{"questions": [
			{"function": "Sales", "question": "How long do approvals take today?", "rationale": "Validates cycle time pain."}]}`,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Anthropic: config.AnthropicConfig{Model: "claude-sonnet-4-5-20250929", MaxTokens: 4096},
		Research:  config.ResearchConfig{MaxSearchResults: 5},
	}
}

func TestPipelineRunFull(t *testing.T) {
	llm := &stubLLM{responses: fullStubResponses()}
	events := make(chan ProgressEvent, 128)

	p := New(testConfig(), llm, WithProgress(events))
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)
	require.NotNil(t, report)

	// Profile and phase 1 output.
	assert.Equal(t, "Acme Corp", report.Meta.CompanyName)
	assert.Equal(t, "Manufacturing", report.CompanyProfile.Industry)
	require.NotNil(t, report.BrandColors)
	assert.Equal(t, "#003366", report.BrandColors.Primary)
	assert.Len(t, report.BusinessUnits, 2)
	require.Len(t, report.StrategicPriorities, 3)

	// Phase 2 output. The matrix prompt carries the profile's industry
	// and scale alongside the unit context.
	assert.Len(t, report.AgreementLandscape.Functions, 5)
	assert.Len(t, report.AgreementMatrix.AgreementTypes, 2)
	assert.Equal(t, 2, report.AgreementMatrix.Metadata.TotalTypes)
	assert.Contains(t, llm.prompt(matrixSystem), "Manufacturing industry")
	assert.Contains(t, llm.prompt(matrixSystem), "Revenue: $2.3B")
	assert.Contains(t, llm.prompt(matrixSystem), "bu_001")

	// Deep research benchmarks came from the LLM (no cache configured).
	require.NotNil(t, report.DeepResearch)
	require.NotNil(t, report.DeepResearch.Benchmarks)
	assert.Equal(t, "Manufacturing", report.DeepResearch.Benchmarks.Industry)
	assert.Equal(t, "1B_plus", report.DeepResearch.Benchmarks.RevenueBand)

	// Opportunities and deterministic rollups.
	require.Len(t, report.OptimizationOpportunities, 3)
	assert.Equal(t, "$17.0M", report.PortfolioSummary.TotalAnnualValue)
	assert.Equal(t, 1, report.PortfolioSummary.HighPriorityOpportunities)
	require.Len(t, report.PriorityMappings, 3)
	assert.Equal(t, "opp_001", report.PriorityMappings[0].CapabilityID)
	require.NotNil(t, report.ProductSummary)
	assert.Equal(t, 1, report.ProductSummary.TotalProducts)

	// Enrichment.
	require.NotNil(t, report.ExecutiveSummary)
	assert.Equal(t, "llm", report.ExecutiveSummary.Generated)
	assert.NotEmpty(t, report.DiscoveryQuestions)

	// Meta accounting: every call recorded 150 tokens.
	assert.Equal(t, len(llm.calls)*150, report.Meta.TotalTokens)
	assert.Greater(t, report.Meta.EstimatedCost, 0.0)

	// Phase ordering: everything in phase 1 precedes phase 2, which
	// precedes opportunity synthesis.
	assert.Less(t, llm.callIndex(profileSystem), llm.callIndex(landscapeSystem))
	assert.Less(t, llm.callIndex(prioritiesSystem), llm.callIndex(landscapeSystem))
	assert.Less(t, llm.callIndex(unitsSystem), llm.callIndex(matrixSystem))
	assert.Less(t, llm.callIndex(landscapeSystem), llm.callIndex(opportunitiesSystem))
	assert.Less(t, llm.callIndex(matrixSystem), llm.callIndex(opportunitiesSystem))
	assert.Less(t, llm.callIndex(opportunitiesSystem), llm.callIndex(summarySystem))

	// Run emitted a terminal done event.
	close(events)
	var last ProgressEvent
	for ev := range events {
		last = ev
	}
	assert.Equal(t, StateDone, last.State)
	assert.Greater(t, last.Tokens, 0)
}

func TestPipelineRunRequiresCompanyName(t *testing.T) {
	p := New(testConfig(), &stubLLM{})
	_, err := p.Run(context.Background(), "")
	assert.Error(t, err)
}

func TestPipelineRejectsShortOpportunityList(t *testing.T) {
	responses := fullStubResponses()
	responses[opportunitiesSystem] = `{"opportunities": [{"opportunity_id": "opp_001", "title": "Only One"}]}`

	p := New(testConfig(), &stubLLM{responses: responses})
	_, err := p.Run(context.Background(), "Acme Corp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 3 opportunities")
}

func TestPipelineTruncatesExtraOpportunities(t *testing.T) {
	responses := fullStubResponses()
	responses[opportunitiesSystem] = `{"opportunities": [
		{"opportunity_id": "opp_001", "title": "A"}, {"opportunity_id": "opp_002", "title": "B"},
		{"opportunity_id": "opp_003", "title": "C"}, {"opportunity_id": "opp_004", "title": "D"}]}`

	p := New(testConfig(), &stubLLM{responses: responses})
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.Len(t, report.OptimizationOpportunities, 3)
}

func TestPipelineEnrichmentFallsBack(t *testing.T) {
	responses := fullStubResponses()
	// Unparseable narrative output must not fail the run.
	responses[summarySystem] = "I could not produce a summary."
	responses[questionsSystem] = "no json here"

	p := New(testConfig(), &stubLLM{responses: responses})
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)

	require.NotNil(t, report.ExecutiveSummary)
	assert.Equal(t, "fallback", report.ExecutiveSummary.Generated)
	assert.Contains(t, report.ExecutiveSummary.Overview, "Acme Corp")
	assert.Equal(t, "$17.0M", report.ExecutiveSummary.EstimatedValue)

	// Fallback questions come from landscape pain points.
	require.NotEmpty(t, report.DiscoveryQuestions)
	assert.Equal(t, "Sales", report.DiscoveryQuestions[0].Function)
}

func TestPipelineBrandColorFailureDegrades(t *testing.T) {
	responses := fullStubResponses()
	responses[brandSystem] = "not json"

	p := New(testConfig(), &stubLLM{responses: responses})
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.Nil(t, report.BrandColors)
	assert.Contains(t, report.ResearchNotes.DataGaps, "brand colors unavailable; exports will use default palette")
}

func TestPipelineUsesCachedFindings(t *testing.T) {
	dir := t.TempDir()
	c := cache.Open(dir + "/cache.json")
	c.PutCompany("Acme Corp", companyFindings{
		SoftwareStack:  []model.SystemFinding{{System: "Salesforce", Category: "CRM"}},
		StrategicGoals: []string{"modernize contracting"},
	})

	p := New(testConfig(), &stubLLM{responses: fullStubResponses()}, WithCache(c))
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)

	require.NotNil(t, report.DeepResearch)
	assert.True(t, report.DeepResearch.FromCache)
	require.Len(t, report.DeepResearch.SoftwareStack, 1)
	assert.Equal(t, "Salesforce", report.DeepResearch.SoftwareStack[0].System)

	// Benchmarks were cached for the next run.
	_, ok := c.GetBenchmark("Manufacturing", "1B_plus")
	assert.True(t, ok)
}

// scriptedSearch returns fixed results for every query.
type scriptedSearch struct {
	results []tavily.Result
}

func (s *scriptedSearch) Search(_ context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error) {
	return &tavily.SearchResponse{Query: req.Query, Results: s.results}, nil
}

func TestPipelineVerifiesQuotesAgainstSearchPool(t *testing.T) {
	searcher := NewSearcher(&scriptedSearch{results: []tavily.Result{
		{URL: "https://investors.acme.com/q4", Title: "Q4 Results", Content: "Industrial is our engine."},
	}}, 100, 5)

	p := New(testConfig(), &stubLLM{responses: fullStubResponses()}, WithSearcher(searcher))
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)

	require.NotEmpty(t, report.StrategicPriorities[0].ExecutiveQuotes)
	q := report.StrategicPriorities[0].ExecutiveQuotes[0]
	assert.True(t, q.Verified)
	assert.Equal(t, model.VerificationExactMatch, q.VerificationStatus)
	assert.Greater(t, q.ConfidenceScore, 0.8)
	assert.NotEmpty(t, report.ResearchNotes.KeyFindings)
}

func TestPipelineSearchPoolResetsBetweenRuns(t *testing.T) {
	search := &scriptedSearch{results: []tavily.Result{
		{URL: "https://investors.acme.com/q4", Title: "Q4 Results", Content: "Industrial is our engine."},
	}}
	searcher := NewSearcher(search, 100, 5)

	p := New(testConfig(), &stubLLM{responses: fullStubResponses()}, WithSearcher(searcher))

	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.True(t, report.StrategicPriorities[0].ExecutiveQuotes[0].Verified)

	// Second run finds nothing; its quotes must not verify against the
	// first run's pooled results.
	search.results = nil
	report, err = p.Run(context.Background(), "Globex")
	require.NoError(t, err)

	q := report.StrategicPriorities[0].ExecutiveQuotes[0]
	assert.False(t, q.Verified)
	assert.Equal(t, model.VerificationNoSearchResults, q.VerificationStatus)
	assert.Empty(t, searcher.Pool())
}

func TestPipelineSerializesConcurrentRuns(t *testing.T) {
	llm := &stubLLM{responses: fullStubResponses()}
	p := New(testConfig(), llm)

	var wg sync.WaitGroup
	reports := make([]*model.Report, 2)
	errs := make([]error, 2)
	for i, company := range []string{"Acme Corp", "Globex"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i], errs[i] = p.Run(context.Background(), company)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// Serialized runs each account only their own stage calls.
	assert.Equal(t, reports[0].Meta.TotalTokens, reports[1].Meta.TotalTokens)
	assert.Equal(t, len(llm.calls)*150, reports[0].Meta.TotalTokens+reports[1].Meta.TotalTokens)
}

func TestPipelinePainPointsCountAsDeepFindings(t *testing.T) {
	responses := fullStubResponses()
	// No industry means no benchmarks; cached findings carry only pain
	// points.
	responses[profileSystem] = `{"legal_name": "Acme Corp", "scale": {"annual_revenue": "$2.3B"}}`

	c := cache.Open(t.TempDir() + "/cache.json")
	c.PutCompany("Acme Corp", companyFindings{
		PainPoints: []model.PainPointFinding{{PainPoint: "manual renewals", Function: "Procurement"}},
	})

	p := New(testConfig(), &stubLLM{responses: responses}, WithCache(c))
	report, err := p.Run(context.Background(), "Acme Corp")
	require.NoError(t, err)

	require.NotNil(t, report.DeepResearch)
	assert.Nil(t, report.DeepResearch.Benchmarks)
	require.Len(t, report.DeepResearch.PainPoints, 1)
	assert.Equal(t, "complete", report.Meta.ResearchStatus)
}
