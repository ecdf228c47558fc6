package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const summarySystem = "You are an executive communications specialist. Write crisp, board-ready summaries grounded in the analysis provided. Always return valid JSON."

const questionsSystem = "You are a sales discovery specialist. Write open-ended validation questions grounded in the analysis provided. Always return valid JSON."

// generateExecutiveSummary writes the narrative summary of the full
// analysis. On any failure it falls back to a deterministic summary built
// from the portfolio rollup so the field is never missing.
func (p *Pipeline) generateExecutiveSummary(ctx context.Context, companyName string, report *model.Report) *model.ExecutiveSummary {
	prompt := fmt.Sprintf(`Write an executive summary of this agreement analysis for %s.

Company: %s (%s)
Strategic Priorities:
%s

Opportunities:
%s

Portfolio: %s total annual value, %s implementation cost, %s ROI

Return JSON with:
- overview: 3-4 sentence narrative overview of the analysis
- key_findings: Array of 3-5 crisp findings
- recommended_focus: 1-2 sentences on where to start
- estimated_value: The total annual value figure

Return ONLY valid JSON.`,
		companyName,
		companyName,
		orUnknown(report.CompanyProfile.Industry),
		priorityNames(report.StrategicPriorities),
		opportunityTitles(report.OptimizationOpportunities),
		report.PortfolioSummary.TotalAnnualValue,
		report.PortfolioSummary.TotalImplementationCost,
		report.PortfolioSummary.PortfolioROI)

	var summary model.ExecutiveSummary
	if err := p.completeJSON(ctx, "executive_summary", summarySystem, prompt, tempSummary, 0, StateEnrichmentRunning, &summary); err != nil || summary.Overview == "" {
		if err != nil {
			zap.L().Warn("research: executive summary generation failed, using fallback", zap.Error(err))
		}
		return fallbackExecutiveSummary(companyName, report)
	}
	summary.Generated = "llm"
	if summary.EstimatedValue == "" {
		summary.EstimatedValue = report.PortfolioSummary.TotalAnnualValue
	}
	return &summary
}

// fallbackExecutiveSummary assembles a summary from the deterministic
// rollups alone.
func fallbackExecutiveSummary(companyName string, report *model.Report) *model.ExecutiveSummary {
	ps := report.PortfolioSummary

	findings := make([]string, 0, 4)
	findings = append(findings,
		fmt.Sprintf("%d optimization opportunities identified with %s combined annual value", ps.TotalOpportunities, ps.TotalAnnualValue))
	if len(report.StrategicPriorities) > 0 {
		findings = append(findings,
			fmt.Sprintf("%d strategic priorities mapped to agreement capabilities", len(report.StrategicPriorities)))
	}
	if report.AgreementLandscape.Summary.TotalFunctions > 0 {
		findings = append(findings,
			fmt.Sprintf("agreement landscape covers %d business functions", report.AgreementLandscape.Summary.TotalFunctions))
	}
	if ps.HighPriorityOpportunities > 0 {
		findings = append(findings,
			fmt.Sprintf("%d opportunities flagged high priority for implementation", ps.HighPriorityOpportunities))
	}

	focus := "Review the identified opportunities with the account team."
	if len(report.OptimizationOpportunities) > 0 {
		focus = fmt.Sprintf("Start with %q in %s.",
			report.OptimizationOpportunities[0].Title,
			orUnknown(report.OptimizationOpportunities[0].BusinessFunction))
	}

	return &model.ExecutiveSummary{
		Overview: fmt.Sprintf(
			"Analysis of %s identified %d agreement optimization opportunities worth %s in combined annual value against %s in implementation cost (portfolio ROI %s).",
			companyName, ps.TotalOpportunities, ps.TotalAnnualValue, ps.TotalImplementationCost, ps.PortfolioROI),
		KeyFindings:      findings,
		RecommendedFocus: focus,
		EstimatedValue:   ps.TotalAnnualValue,
		Generated:        "fallback",
	}
}

// generateDiscoveryQuestions produces stakeholder validation questions, one
// set per business function, falling back to templated questions built from
// the landscape pain points.
func (p *Pipeline) generateDiscoveryQuestions(ctx context.Context, companyName string, report *model.Report) []model.DiscoveryQuestion {
	prompt := fmt.Sprintf(`Based on this agreement analysis of %s, write discovery questions for stakeholder validation.

Business Functions and Pain Points:
%s

Opportunities:
%s

Write 5-8 open-ended questions that validate the analysis with stakeholders. Each question should target a specific function and test a specific assumption.

Return JSON with an array under the key "questions", each item:
- function: Business function the question targets
- question: The question text
- rationale: What assumption this validates (1 sentence)

Return ONLY valid JSON.`,
		companyName,
		marshalIndent(landscapePainPoints(report.AgreementLandscape)),
		opportunityTitles(report.OptimizationOpportunities))

	var raw json.RawMessage
	if err := p.completeJSON(ctx, "discovery_questions", questionsSystem, prompt, tempQuestions, 0, StateEnrichmentRunning, &raw); err != nil {
		zap.L().Warn("research: discovery questions generation failed, using fallback", zap.Error(err))
		return fallbackDiscoveryQuestions(report)
	}

	questions, err := decodeList[model.DiscoveryQuestion](raw, "questions", "discovery_questions")
	if err != nil || len(questions) == 0 {
		return fallbackDiscoveryQuestions(report)
	}
	return questions
}

func fallbackDiscoveryQuestions(report *model.Report) []model.DiscoveryQuestion {
	var questions []model.DiscoveryQuestion
	for _, f := range report.AgreementLandscape.Functions {
		if len(f.PainPoints) == 0 {
			continue
		}
		questions = append(questions, model.DiscoveryQuestion{
			Function:  f.FunctionName,
			Question:  fmt.Sprintf("How does your %s team currently handle %s?", f.FunctionName, strings.ToLower(f.PainPoints[0])),
			Rationale: "Validates the primary pain point identified for this function.",
		})
		if len(questions) == 8 {
			break
		}
	}
	return questions
}

func priorityNames(priorities []model.StrategicPriority) string {
	names := make([]string, 0, len(priorities))
	for _, pr := range priorities {
		names = append(names, fmt.Sprintf("- %s: %s", pr.PriorityName, pr.PriorityDescription))
	}
	return strings.Join(names, "\n")
}

func opportunityTitles(opportunities []model.Opportunity) string {
	titles := make([]string, 0, len(opportunities))
	for _, opp := range opportunities {
		titles = append(titles, fmt.Sprintf("- %s (%s annual value)", opp.Title, opp.ValueQuantification.TotalAnnualValue))
	}
	return strings.Join(titles, "\n")
}

type functionPainPoints struct {
	Function   string   `json:"function"`
	PainPoints []string `json:"pain_points,omitempty"`
}

func landscapePainPoints(landscape model.AgreementLandscape) []functionPainPoints {
	out := make([]functionPainPoints, 0, len(landscape.Functions))
	for _, f := range landscape.Functions {
		out = append(out, functionPainPoints{Function: f.FunctionName, PainPoints: f.PainPoints})
	}
	return out
}
