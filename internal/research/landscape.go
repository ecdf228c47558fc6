package research

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const landscapeSystem = "You are a contract management expert specializing in organizational analysis. Map agreements to business functions based on typical company structures and the business units provided."

// unitContext is the trimmed business-unit view passed to downstream prompts.
type unitContext struct {
	UnitID      string   `json:"unit_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Revenue     string   `json:"revenue,omitempty"`
	Systems     []string `json:"systems,omitempty"`
}

func summarizeUnits(units []model.BusinessUnit) string {
	ctx := make([]unitContext, 0, len(units))
	for _, u := range units {
		ctx = append(ctx, unitContext{
			UnitID:      u.UnitID,
			Name:        u.Name,
			Description: u.Description,
			Revenue:     u.RevenueContribution,
			Systems:     u.SystemsUsed,
		})
	}
	raw, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// researchLandscape maps agreements onto at least 5 business functions.
func (p *Pipeline) researchLandscape(ctx context.Context, companyName string, units []model.BusinessUnit) (model.AgreementLandscape, error) {
	prompt := fmt.Sprintf(`Analyze %s's agreement/contract landscape organized by BUSINESS FUNCTION.

Business Units Context:
%s

Based on the business units above, identify AT LEAST 5 major BUSINESS FUNCTIONS (minimum 5, maximum 8). Common functions include: Sales, Marketing, Procurement, HR, Legal, IT, Operations, Finance, Customer Success. Map agreements to each function.

For EACH business function, provide in JSON format:
- function_name: Name of the business function (e.g., "Sales", "Procurement")
- description: 1-2 sentence description of what this function does
- business_units: Array of business unit names that belong to this function
- systems_used: Array of systems/tools this function uses for agreements (use common acronyms like CRM, ERP, CLM, CDMS, HCM, SCM, PLM, etc. based on business units data)
- agreement_types: Array of 3-5 key agreement types with:
  - type: Agreement type name (e.g., "Customer Master Service Agreement")
  - volume: Estimated count (e.g., "2,000+")
  - avg_value: Average contract value if applicable
  - avg_term: Typical contract duration
  - managed_in: Which system(s) manage this agreement type
  - renewal_pattern: "quarterly"/"annual"/"multi-year"/"evergreen"
- total_agreements: Total agreement count for this function
- complexity: Complexity rating (1-5, where 5 is most complex)
- pain_points: Array of 2-3 typical challenges for this function

Also include a summary:
- total_estimated_agreements: Total across all functions
- total_functions: Count of functions

Return as valid JSON with structure:
{
  "functions": [...array of function objects...],
  "summary": {...}
}`,
		companyName, summarizeUnits(units))

	var landscape model.AgreementLandscape
	if err := p.completeJSON(ctx, "landscape", landscapeSystem, prompt, tempLandscape, 0, StatePhase2Running, &landscape); err != nil {
		return model.AgreementLandscape{}, err
	}
	if len(landscape.Functions) == 0 {
		return model.AgreementLandscape{}, eris.New("research: landscape returned no functions")
	}
	if landscape.Summary.TotalFunctions == 0 {
		landscape.Summary.TotalFunctions = len(landscape.Functions)
	}
	return landscape, nil
}
