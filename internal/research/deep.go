package research

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/cache"
	"github.com/prsolans/agreement-mapper/internal/model"
)

const deepSystem = "You are a technology and operations researcher. Extract concrete, evidence-backed findings from the provided search results. Always return valid JSON. Only report findings supported by the search results."

const benchmarkSystem = "You are an industry analyst specializing in contract management benchmarks. Provide realistic figures for the given industry and company size. Always return valid JSON."

// companyFindings is the cacheable slice of deep research that is specific
// to one company.
type companyFindings struct {
	SoftwareStack  []model.SystemFinding    `json:"software_stack,omitempty"`
	StrategicGoals []string                 `json:"strategic_goals,omitempty"`
	PainPoints     []model.PainPointFinding `json:"pain_points,omitempty"`
}

// runDeepResearch gathers evidence-backed findings about the company's
// software stack, goals, and pain points, plus industry benchmarks. Every
// step is best-effort: failures log and leave the affected section empty,
// never aborting the run.
func (p *Pipeline) runDeepResearch(ctx context.Context, companyName string, profile *model.CompanyProfile) *model.DeepResearchFindings {
	p.emit("deep_research", "mining sources", StateDeepResearchRunning)

	findings := &model.DeepResearchFindings{}

	if cached, ok := p.cachedCompanyFindings(companyName); ok {
		findings.SoftwareStack = cached.SoftwareStack
		findings.StrategicGoals = cached.StrategicGoals
		findings.PainPoints = cached.PainPoints
		findings.FromCache = true
		zap.L().Info("deep research: company findings from cache",
			zap.String("company", companyName))
	} else {
		mined := p.mineCompanyFindings(ctx, companyName)
		if mined != nil {
			findings.SoftwareStack = mined.SoftwareStack
			findings.StrategicGoals = mined.StrategicGoals
			findings.PainPoints = mined.PainPoints
			if p.cache != nil {
				p.cache.PutCompany(companyName, mined)
			}
		}
	}

	findings.Benchmarks = p.industryBenchmarks(ctx, profile)

	if len(findings.SoftwareStack) == 0 && len(findings.PainPoints) == 0 && findings.Benchmarks == nil {
		zap.L().Warn("deep research: no findings gathered",
			zap.String("company", companyName))
	}
	return findings
}

func (p *Pipeline) cachedCompanyFindings(companyName string) (*companyFindings, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, ok := p.cache.GetCompany(companyName)
	if !ok {
		return nil, false
	}
	var cached companyFindings
	if err := json.Unmarshal(raw, &cached); err != nil {
		zap.L().Warn("deep research: corrupt cached findings, refetching",
			zap.String("company", companyName), zap.Error(err))
		return nil, false
	}
	return &cached, true
}

// mineCompanyFindings searches job postings and engineering sources for the
// company's systems, goals, and operational pain points.
func (p *Pipeline) mineCompanyFindings(ctx context.Context, companyName string) *companyFindings {
	jobResults := p.searcher.Search(ctx,
		fmt.Sprintf(`%s jobs careers "experience with" CRM ERP CLM Salesforce SAP Workday contract management`, companyName), 7)
	goalResults := p.searcher.Search(ctx,
		fmt.Sprintf("%s digital transformation initiatives technology investments operational challenges", companyName), 5)

	available := p.searcher.Available()
	if !available || (len(jobResults) == 0 && len(goalResults) == 0) {
		zap.L().Info("deep research: no source material for company findings",
			zap.String("company", companyName))
		return nil
	}

	prompt := fmt.Sprintf(`Analyze these search results about %s.

=== JOB POSTINGS & CAREERS ===
%s

=== TECHNOLOGY & OPERATIONS NEWS ===
%s

From the evidence above, extract:
- software_stack: Array of software systems the company demonstrably uses:
  - system: System name (e.g., "Salesforce", "SAP Ariba")
  - category: CRM/ERP/CLM/HCM/SCM/Other
  - evidence: The sentence or phrase that proves usage
  - source: URL the evidence came from
- strategic_goals: Array of stated technology or operational goals (strings)
- pain_points: Array of operational pain points with evidence:
  - pain_point: Short description
  - function: Business function affected
  - evidence: Supporting text from the results
  - source: URL

Only include findings directly supported by the search results above. Return ONLY valid JSON.`,
		companyName,
		FormatResults(jobResults, available),
		FormatResults(goalResults, available))

	var mined companyFindings
	if err := p.completeJSON(ctx, "deep_company", deepSystem, prompt, tempUnits, 0, StateDeepResearchRunning, &mined); err != nil {
		zap.L().Warn("deep research: company findings failed",
			zap.String("company", companyName), zap.Error(err))
		return nil
	}
	if len(mined.SoftwareStack) == 0 && len(mined.StrategicGoals) == 0 && len(mined.PainPoints) == 0 {
		return nil
	}
	return &mined
}

// industryBenchmarks fetches contracting benchmarks for the company's
// industry and revenue band, consulting the long-TTL cache first.
func (p *Pipeline) industryBenchmarks(ctx context.Context, profile *model.CompanyProfile) *model.IndustryBenchmarks {
	if profile == nil || profile.Industry == "" {
		return nil
	}
	band := cache.RevenueBand(profile.Scale.AnnualRevenue)

	if p.cache != nil {
		if raw, ok := p.cache.GetBenchmark(profile.Industry, band); ok {
			var cached model.IndustryBenchmarks
			if err := json.Unmarshal(raw, &cached); err == nil {
				zap.L().Info("deep research: benchmarks from cache",
					zap.String("industry", profile.Industry),
					zap.String("revenue_band", band))
				return &cached
			}
		}
	}

	prompt := fmt.Sprintf(`Provide contract management benchmarks for the %s industry, for companies in the %s revenue band.

Return JSON with:
- industry: "%s"
- revenue_band: "%s"
- avg_contract_cycle_days: Typical contract cycle time in days
- typical_clm_adoption: Description of typical contract lifecycle management maturity
- common_systems: Array of systems commonly used in this industry
- benchmark_notes: 2-3 sentences of context
- sources: Array of source descriptions

Return ONLY valid JSON.`,
		profile.Industry, band, profile.Industry, band)

	var benchmarks model.IndustryBenchmarks
	if err := p.completeJSON(ctx, "deep_benchmarks", benchmarkSystem, prompt, tempUnits, 0, StateDeepResearchRunning, &benchmarks); err != nil {
		zap.L().Warn("deep research: benchmarks failed",
			zap.String("industry", profile.Industry), zap.Error(err))
		return nil
	}
	benchmarks.Industry = profile.Industry
	benchmarks.RevenueBand = band

	if p.cache != nil {
		p.cache.PutBenchmark(profile.Industry, band, benchmarks)
	}
	return &benchmarks
}
