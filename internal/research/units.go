package research

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const unitsSystem = "You are a business analyst specializing in organizational structure and operations. Provide detailed, realistic estimates based on company size and industry."

// researchBusinessUnits identifies the company's 2-4 major divisions.
func (p *Pipeline) researchBusinessUnits(ctx context.Context, companyName string) ([]model.BusinessUnit, error) {
	results := p.searcher.Search(ctx,
		fmt.Sprintf("%s business units divisions organizational structure segments revenue breakdown", companyName),
		p.cfg.Research.MaxSearchResults,
	)

	prompt := fmt.Sprintf(`Based on the following web search results about %s, analyze their business structure and identify 2-4 major business units or divisions.

WEB SEARCH RESULTS:
%s

Using the above search results, identify the major business units or divisions:

For each business unit, provide in JSON format:
- unit_id: Unique identifier (e.g., "bu_001")
- name: Business unit name
- description: What this unit does (1-2 sentences)
- revenue_contribution: Revenue amount with $ (estimate if needed)
- revenue_percentage: Percentage of total company revenue
- agreement_volume: Estimated number of agreements (e.g., "5,000+")
- agreement_volume_numeric: Numeric estimate
- complexity_level: 1-5 scale (1=simple, 5=highly complex)
- complexity_notes: Why this complexity rating
- key_agreement_types: Array of 2-4 main agreement types with:
  - type: Agreement type name
  - volume: Estimated count
  - avg_value: Average contract value
  - avg_term: Typical contract duration
  - renewal_rate: Renewal percentage if known
- primary_counterparties: Array of who they contract with
- systems_used: Array of systems/tools for contract management (use common acronyms like CRM, ERP, CLM, CDMS, HCM, SCM, PLM, etc.)
- pain_points: Array of 2-3 likely contract/agreement challenges
- sources: Data sources
- confidence: high/medium/low

Return array of business units as valid JSON.`,
		companyName, FormatResults(results, p.searcher.Available()))

	var raw json.RawMessage
	if err := p.completeJSON(ctx, "business_units", unitsSystem, prompt, tempUnits, 0, StatePhase1Running, &raw); err != nil {
		return nil, err
	}

	units, err := decodeList[model.BusinessUnit](raw, "business_units", "units")
	if err != nil {
		return nil, eris.Wrap(err, "research: business units")
	}
	if len(units) == 0 {
		return nil, eris.New("research: no business units identified")
	}
	return units, nil
}
