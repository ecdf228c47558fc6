// Package research implements the multi-stage company research pipeline:
// parallel profile/units/priorities extraction, landscape and matrix
// analysis, a best-effort deep-research sub-pipeline, opportunity synthesis,
// and deterministic portfolio aggregation.
package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prsolans/agreement-mapper/internal/cache"
	"github.com/prsolans/agreement-mapper/internal/catalog"
	"github.com/prsolans/agreement-mapper/internal/config"
	"github.com/prsolans/agreement-mapper/internal/model"
	"github.com/prsolans/agreement-mapper/pkg/anthropic"
)

const templateVersion = "2.0"

// Pipeline runs end-to-end company research. Construct with New. A Pipeline
// holds per-run state (token accounting, the search pool), so concurrent
// Run calls serialize on an internal mutex.
type Pipeline struct {
	cfg      *config.Config
	llm      anthropic.Client
	searcher *Searcher
	cache    *cache.Cache
	catalog  *catalog.Catalog
	progress chan<- ProgressEvent

	runMu sync.Mutex
	usage usageCounter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSearcher attaches a web search backend. Without one, stages run on
// model knowledge alone and quotes stay unverified.
func WithSearcher(s *Searcher) Option {
	return func(p *Pipeline) { p.searcher = s }
}

// WithCache attaches the research cache used by deep research.
func WithCache(c *cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithCatalog attaches the product catalog used to ground recommendations.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Pipeline) { p.catalog = c }
}

// WithProgress attaches a progress event channel. Sends never block; size
// the channel for the expected event volume or accept drops.
func WithProgress(ch chan<- ProgressEvent) Option {
	return func(p *Pipeline) { p.progress = ch }
}

// New builds a Pipeline around an LLM client.
func New(cfg *config.Config, llm anthropic.Client, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, llm: llm}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes the full research pipeline for one company and returns the
// assembled report. Core stage failures abort the run; deep research and
// narrative enrichment degrade instead.
func (p *Pipeline) Run(ctx context.Context, companyName string) (*model.Report, error) {
	if companyName == "" {
		return nil, eris.New("research: company name is required")
	}

	p.runMu.Lock()
	defer p.runMu.Unlock()

	start := time.Now()
	p.usage = usageCounter{}
	p.searcher.Reset()
	log := zap.L().With(zap.String("company", companyName))
	log.Info("research run starting")

	report := &model.Report{}

	// Phase 1: profile, business units, and strategic priorities have no
	// cross-dependencies, so they fan out together.
	p.emit("phase1", "profile, units, priorities", StatePhase1Running)

	var (
		profile    model.CompanyProfile
		colors     *model.BrandColors
		units      []model.BusinessUnit
		priorities []model.StrategicPriority
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, colors, err = p.researchProfile(gctx, companyName)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = p.researchBusinessUnits(gctx, companyName)
		return err
	})
	g.Go(func() error {
		var err error
		priorities, err = p.researchPriorities(gctx, companyName)
		return err
	})
	if err := g.Wait(); err != nil {
		p.emit("phase1", "failed", StateFailed)
		return nil, err
	}

	// Score and verify quotes against everything the priority searches
	// returned.
	EnrichQuotes(priorities, p.searcher.Pool())

	report.CompanyProfile = profile
	report.BrandColors = colors
	report.BusinessUnits = units
	report.StrategicPriorities = priorities

	// Phase 2: landscape and matrix both depend on the unit list but not
	// on each other.
	p.emit("phase2", "landscape, matrix", StatePhase2Running)

	var (
		landscape model.AgreementLandscape
		matrix    model.AgreementMatrix
	)
	g2, g2ctx := errgroup.WithContext(ctx)
	g2.Go(func() error {
		var err error
		landscape, err = p.researchLandscape(g2ctx, companyName, units)
		return err
	})
	g2.Go(func() error {
		var err error
		matrix, err = p.researchMatrix(g2ctx, companyName, &profile, units)
		return err
	})
	if err := g2.Wait(); err != nil {
		p.emit("phase2", "failed", StateFailed)
		return nil, err
	}
	report.AgreementLandscape = landscape
	report.AgreementMatrix = matrix

	// Deep research never aborts the run.
	report.DeepResearch = p.runDeepResearch(ctx, companyName, &profile)

	opportunities, err := p.researchOpportunities(ctx, companyName, report)
	if err != nil {
		p.emit("opportunities", "failed", StateFailed)
		return nil, err
	}
	report.OptimizationOpportunities = opportunities

	// Aggregation is deterministic and recomputed fresh from stage output.
	p.emit("aggregation", "portfolio rollup", StateAggregationRunning)
	report.PortfolioSummary = ComputePortfolio(opportunities)
	report.PriorityMappings = MapPrioritiesToCapabilities(priorities, opportunities)
	report.ProductSummary = SummarizeProducts(opportunities)

	// Narrative enrichment falls back to deterministic output on failure.
	p.emit("enrichment", "summary, questions", StateEnrichmentRunning)
	report.ExecutiveSummary = p.generateExecutiveSummary(ctx, companyName, report)
	report.DiscoveryQuestions = p.generateDiscoveryQuestions(ctx, companyName, report)

	report.ResearchNotes = buildResearchNotes(report)
	report.Meta = p.buildMeta(companyName, report)

	p.emit("done", "complete", StateDone)
	log.Info("research run complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("total_tokens", report.Meta.TotalTokens),
		zap.Float64("estimated_cost_usd", report.Meta.EstimatedCost),
	)
	return report, nil
}

func (p *Pipeline) buildMeta(companyName string, report *model.Report) model.Meta {
	usage := p.usage.snapshot()
	now := time.Now().UTC()

	status := "complete"
	dr := report.DeepResearch
	if dr == nil || (len(dr.SoftwareStack) == 0 && len(dr.PainPoints) == 0 && dr.Benchmarks == nil) {
		status = "complete_partial_deep_research"
	}

	return model.Meta{
		TemplateVersion: templateVersion,
		CompanyName:     companyName,
		AnalysisDate:    now.Format("2006-01-02"),
		LastUpdated:     now.Format(time.RFC3339),
		Analyst:         "automated-research",
		ResearchStatus:  status,
		TotalTokens:     usage.Total(),
		EstimatedCost:   usage.EstimateCost(p.cfg.Anthropic.Model),
	}
}

// buildResearchNotes records coverage gaps an analyst should follow up on.
func buildResearchNotes(report *model.Report) model.ResearchNotes {
	notes := model.ResearchNotes{}

	if len(report.StrategicPriorities) > 0 {
		verified := 0
		total := 0
		for _, pr := range report.StrategicPriorities {
			for _, q := range pr.ExecutiveQuotes {
				total++
				if q.Verified {
					verified++
				}
			}
		}
		if total > 0 {
			notes.KeyFindings = append(notes.KeyFindings,
				fmt.Sprintf("%d of %d executive quotes verified against live search results", verified, total))
		}
	}

	if report.CompanyProfile.Scale.AnnualRevenue == "" {
		notes.DataGaps = append(notes.DataGaps, "annual revenue not found; benchmark band defaulted to unknown")
	}
	if report.DeepResearch == nil || len(report.DeepResearch.SoftwareStack) == 0 {
		notes.DataGaps = append(notes.DataGaps, "no software stack evidence found in job postings")
	}
	if report.BrandColors == nil {
		notes.DataGaps = append(notes.DataGaps, "brand colors unavailable; exports will use default palette")
	}

	notes.NextSteps = append(notes.NextSteps,
		"validate business unit structure with account team",
		"confirm agreement volumes with stakeholders during discovery",
	)
	return notes
}
