package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const matrixSystem = "You are a contract management expert specializing in agreement lifecycle analysis. Provide realistic volume and complexity rankings based on industry standards and company size."

// matrixTypeCount is the fixed number of agreement types plotted on the
// volume/complexity matrix.
const matrixTypeCount = 15

// researchMatrix plots agreement types on a volume-by-complexity grid.
// Overlong responses are truncated to matrixTypeCount; short responses are
// kept with a warning since a sparse matrix still renders.
func (p *Pipeline) researchMatrix(ctx context.Context, companyName string, profile *model.CompanyProfile, units []model.BusinessUnit) (model.AgreementMatrix, error) {
	industry := "N/A"
	revenue := "N/A"
	employees := "N/A"
	if profile != nil {
		industry = orUnknown(profile.Industry)
		revenue = orUnknown(profile.Scale.AnnualRevenue)
		if profile.Scale.Employees != nil {
			employees = fmt.Sprint(profile.Scale.Employees)
		}
	}

	prompt := fmt.Sprintf(`I'm creating an agreement matrix for %s in the %s industry.

Company Scale:
- Revenue: %s
- Employees: %s

Business Units Context:
%s

The matrix will use:
- X-axis: Volume (how frequently the agreement type is used/signed) - Scale 1-10
- Y-axis: Complexity (clauses, stakeholders, legal review, customization) - Scale 1-10

Identify the top %d agreement types most relevant to %s based on their industry, operations, and common practices. Include both internal (within company) and external (with customers, vendors, regulators) agreements.

For EACH agreement type, provide in JSON format:
- type: Agreement type name (e.g., "Non-Disclosure Agreements", "Master Service Agreements")
- volume: Numeric score 1-10 (1=rarely used, 5=moderate, 10=used constantly)
- complexity: Numeric score 1-10 (1=simple template, 5=moderate negotiation, 10=highly complex/customized)
- classification: "Internal" or "External"
- business_unit: Primary owner (e.g., "Legal", "HR", "Sales", "Procurement", "Operations", "IT", "Finance")
- description: Brief 1-sentence description of this agreement type
- estimated_annual_volume: Approximate number per year (e.g., "500+", "2,000+")

Also provide:
- matrix_metadata:
  - total_types: Count of agreement types
  - highest_volume_type: Name of agreement with highest volume
  - highest_complexity_type: Name of agreement with highest complexity
  - quadrant_distribution: Count in each quadrant (high_vol_high_complex, high_vol_low_complex, low_vol_high_complex, low_vol_low_complex)

Base suggestions on what is typical for companies in this industry if exact internal details are unavailable.

Return as valid JSON with structure:
{
  "agreement_types": [...array of %d agreement type objects...],
  "matrix_metadata": {...}
}`,
		companyName, industry, revenue, employees, summarizeUnits(units), matrixTypeCount, companyName, matrixTypeCount)

	var matrix model.AgreementMatrix
	if err := p.completeJSON(ctx, "matrix", matrixSystem, prompt, tempMatrix, 0, StatePhase2Running, &matrix); err != nil {
		return model.AgreementMatrix{}, err
	}

	matrix.AgreementTypes = normalizeMatrixTypes(matrix.AgreementTypes)
	matrix.Metadata.TotalTypes = len(matrix.AgreementTypes)
	return matrix, nil
}

func normalizeMatrixTypes(types []model.MatrixEntry) []model.MatrixEntry {
	if len(types) > matrixTypeCount {
		zap.L().Debug("research: matrix overfilled, truncating",
			zap.Int("returned", len(types)),
			zap.Int("kept", matrixTypeCount),
		)
		types = types[:matrixTypeCount]
	} else if len(types) < matrixTypeCount {
		zap.L().Warn("research: matrix underfilled",
			zap.Int("returned", len(types)),
			zap.Int("expected", matrixTypeCount),
		)
	}
	return types
}
