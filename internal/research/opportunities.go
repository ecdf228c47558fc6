package research

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const opportunitiesSystem = "You are a business process consultant specializing in contract lifecycle optimization. Provide realistic value estimates based on industry benchmarks. Always return EXACTLY 3 opportunities."

// opportunityCount is the fixed number of optimization opportunities per run.
const opportunityCount = 3

// maxCatalogProducts caps how many catalog products go into the prompt.
const maxCatalogProducts = 15

type functionContext struct {
	Function   string   `json:"function"`
	Systems    []string `json:"systems,omitempty"`
	Agreements any      `json:"agreements,omitempty"`
	PainPoints []string `json:"pain_points,omitempty"`
}

type priorityContext struct {
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	ExecutiveOwner string        `json:"executive_owner,omitempty"`
	Urgency        string        `json:"urgency,omitempty"`
	Quotes         []model.Quote `json:"executive_quotes,omitempty"`
}

// researchOpportunities synthesizes exactly three optimization opportunities
// grounded in the priorities, landscape, deep-research findings, and product
// catalog gathered so far.
func (p *Pipeline) researchOpportunities(ctx context.Context, companyName string, report *model.Report) ([]model.Opportunity, error) {
	p.emit("opportunities", "synthesizing", StateOpportunitiesRunning)

	functions := make([]functionContext, 0, len(report.AgreementLandscape.Functions))
	for _, f := range report.AgreementLandscape.Functions {
		functions = append(functions, functionContext{
			Function:   f.FunctionName,
			Systems:    f.SystemsUsed,
			Agreements: f.TotalAgreements,
			PainPoints: f.PainPoints,
		})
	}

	priorities := make([]priorityContext, 0, len(report.StrategicPriorities))
	for _, pr := range report.StrategicPriorities {
		priorities = append(priorities, priorityContext{
			Name:           pr.PriorityName,
			Description:    pr.PriorityDescription,
			ExecutiveOwner: pr.ExecutiveOwner,
			Urgency:        pr.Urgency,
			Quotes:         pr.ExecutiveQuotes,
		})
	}

	promptContext := fmt.Sprintf(`Company: %s
Revenue: %s
Industry: %s

Strategic Priorities (with Executive Quotes):
%s

Business Functions & Pain Points:
%s`,
		companyName,
		orUnknown(report.CompanyProfile.Scale.AnnualRevenue),
		orUnknown(report.CompanyProfile.Industry),
		marshalIndent(priorities),
		marshalIndent(functions))

	if report.DeepResearch != nil && (len(report.DeepResearch.SoftwareStack) > 0 || len(report.DeepResearch.PainPoints) > 0) {
		promptContext += fmt.Sprintf(`

Deep Research Findings (software stack and operational pain points from live sources):
%s`, marshalIndent(report.DeepResearch))
	}

	productInstruction := ""
	productFields := ""
	if p.catalog != nil && len(p.catalog.Products) > 0 {
		promptContext += fmt.Sprintf(`

Product Catalog (for recommendation context):
%s`, marshalIndent(p.catalog.Top(maxCatalogProducts)))

		productInstruction = "PRODUCT CONTEXT: Use the Product Catalog above to recommend specific products that address each opportunity.\n\n"
		productFields = `- recommended_docusign_products: Array of 1-3 products from the catalog that address this opportunity:
  - product_name: Name from catalog
  - category: Category from catalog
  - why_recommended: 1-2 sentence explanation of fit
  - key_capabilities_used: Array of 2-3 capabilities from the product that apply
`
	}

	prompt := fmt.Sprintf(`Based on this company context:
%s

Identify EXACTLY %d high-value contract/agreement optimization opportunities.

%sCRITICAL REQUIREMENTS:
1. Each opportunity MUST directly support one of the Strategic Priorities listed above
2. Each opportunity MUST reference specific executive quotes from the priorities (if available)
3. Map each opportunity to the executive who would champion it

Each opportunity should be tied to specific business functions, systems, and agreement types.

For each opportunity, provide in JSON format:
- opportunity_id: Unique ID (e.g., "opp_001")
- title: Concise title (e.g., "Sales Contract Cycle Time Reduction")
- use_case_name: Clear use case name for presentation (e.g., "Maximize Value Negotiated", "Accelerate Contract Onboarding")
- description: One sentence description
- business_function: Primary business function that benefits (e.g., "Sales", "Procurement")
- agreement_types: Array of specific agreement types affected
- capabilities: 2-3 sentence description of what this opportunity enables
- systems_impacted: Array of systems that need changes
- business_units_impacted: Array of business unit IDs that benefit
- strategic_alignment: Array of 2 strategic benefits
- executive_alignment: How this opportunity maps to executive statements:
  - priority_name: Which strategic priority this supports
  - executive_champion: Name and title of executive who would champion this (from priorities)
  - alignment_statement: 2-3 sentence explanation of how this addresses the executive's stated priority
  - supporting_quote: Direct executive quote from priorities that this opportunity addresses (if available)
- current_state:
  - process_description: Current process (2-3 sentences)
  - cycle_time: Current timeframe
  - pain_points: Array of 3 specific problems
- future_state:
  - process_description: Improved process
  - target_cycle_time: Target timeframe
  - key_capabilities: Array of 3 required capabilities/tools
- risk_reduction: Describe how this reduces risk for the specific agreement types
- compliance_benefits: Describe compliance improvements by agreement type
- value_quantification:
  - time_savings: Time saved per transaction
  - agreements_affected: Annual volume
  - revenue_acceleration: Revenue impact (if applicable)
  - cost_savings: Cost reduction
  - total_annual_value: Combined annual value
  - implementation_cost: Estimated cost
  - roi_percentage: ROI as percentage
  - payback_period: Payback timeframe
- metrics: Array of 2-4 mixed metrics for presentation (combine financial and efficiency):
  - Each metric: {"label": "reduced value leakage", "value": "10%%", "type": "financial"}
  - Include at least 1 financial (ROI, cost reduction, revenue) and 1 efficiency (cycle time, speed, volume) metric
- implementation:
  - priority: high/medium/low
  - timeline: Implementation duration
  - complexity: high/medium/low
  - dependencies: Array of prerequisites
%s- sources: Data sources
- confidence: high/medium/low

Focus on opportunities that address the pain points identified in the business functions above.

IMPORTANT: You MUST return EXACTLY %d opportunities in your response.

Return as valid JSON with the opportunities under the key "opportunities".`,
		promptContext, opportunityCount, productInstruction, productFields, opportunityCount)

	var raw json.RawMessage
	if err := p.completeJSON(ctx, "opportunities", opportunitiesSystem, prompt, tempOpportunities, 4096, StateOpportunitiesRunning, &raw); err != nil {
		return nil, err
	}

	opportunities, err := decodeList[model.Opportunity](raw, "opportunities", "optimization_opportunities")
	if err != nil {
		return nil, eris.Wrap(err, "research: opportunities")
	}
	return validateOpportunityCount(opportunities)
}

// validateOpportunityCount enforces the fixed opportunity count. Too few is
// an error; downstream aggregation and exports assume a full set. Extras are
// dropped from the tail.
func validateOpportunityCount(opportunities []model.Opportunity) ([]model.Opportunity, error) {
	if len(opportunities) < opportunityCount {
		return nil, eris.Errorf("research: expected %d opportunities, got %d", opportunityCount, len(opportunities))
	}
	if len(opportunities) > opportunityCount {
		zap.L().Debug("research: extra opportunities dropped",
			zap.Int("returned", len(opportunities)),
		)
		opportunities = opportunities[:opportunityCount]
	}
	return opportunities, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func marshalIndent(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}
