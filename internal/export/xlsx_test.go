package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/prsolans/agreement-mapper/internal/model"
)

func testReport() *model.Report {
	return &model.Report{
		Meta: model.Meta{CompanyName: "Acme Corp", AnalysisDate: "2026-08-28", ResearchStatus: "complete"},
		CompanyProfile: model.CompanyProfile{
			Industry: "Manufacturing",
			Scale:    model.Scale{AnnualRevenue: "$2.3B"},
		},
		StrategicPriorities: []model.StrategicPriority{{
			PriorityID:   "priority_001",
			PriorityName: "Growing the Core",
			Urgency:      "high",
			ExecutiveQuotes: []model.Quote{
				{QuoteText: "quote", Verified: true},
				{QuoteText: "other"},
			},
		}},
		PriorityMappings: []model.PriorityMapping{{
			PriorityID:     "priority_001",
			CapabilityName: "Accelerate Deals",
		}},
		OptimizationOpportunities: []model.Opportunity{{
			OpportunityID:    "opp_001",
			Title:            "Sales Cycle Reduction",
			BusinessFunction: "Sales",
			Implementation:   model.Implementation{Priority: "high"},
			ValueQuantification: model.ValueQuantification{
				TotalAnnualValue:   "$10M",
				ImplementationCost: "$1M",
			},
			RecommendedProducts: []model.ProductRecommendation{{ProductName: "CLM"}},
		}},
		AgreementMatrix: model.AgreementMatrix{
			AgreementTypes: []model.MatrixEntry{
				{Type: "NDA", Volume: 9, Complexity: 2, Classification: "External"},
			},
		},
		PortfolioSummary: model.PortfolioSummary{
			TotalOpportunities: 1,
			TotalAnnualValue:   "$10.0M",
			PortfolioROI:       "900%",
		},
		ExecutiveSummary: &model.ExecutiveSummary{
			Overview:    "Strong optimization potential.",
			KeyFindings: []string{"$10M value"},
		},
	}
}

func TestWorkbook(t *testing.T) {
	raw, err := Workbook(testReport())
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := xlsx.OpenBinary(raw)
	require.NoError(t, err)

	require.Len(t, f.Sheets, 4)
	for _, name := range []string{"Summary", "Priorities", "Opportunities", "Matrix"} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, "missing sheet %s", name)
	}

	summary := f.Sheet["Summary"]
	assert.Equal(t, "Company", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "Acme Corp", summary.Rows[0].Cells[1].String())

	priorities := f.Sheet["Priorities"]
	require.GreaterOrEqual(t, len(priorities.Rows), 2)
	assert.Equal(t, "Growing the Core", priorities.Rows[1].Cells[0].String())
	assert.Equal(t, "1/2", priorities.Rows[1].Cells[4].String())
	assert.Equal(t, "Accelerate Deals", priorities.Rows[1].Cells[5].String())

	opportunities := f.Sheet["Opportunities"]
	require.GreaterOrEqual(t, len(opportunities.Rows), 2)
	assert.Equal(t, "Sales Cycle Reduction", opportunities.Rows[1].Cells[1].String())
	assert.Equal(t, "CLM", opportunities.Rows[1].Cells[8].String())

	matrix := f.Sheet["Matrix"]
	require.GreaterOrEqual(t, len(matrix.Rows), 2)
	assert.Equal(t, "NDA", matrix.Rows[1].Cells[0].String())
	assert.Equal(t, "9", matrix.Rows[1].Cells[1].String())
}

func TestWorkbookNilReport(t *testing.T) {
	_, err := Workbook(nil)
	assert.Error(t, err)
}

func TestWorkbookEmptyReport(t *testing.T) {
	raw, err := Workbook(&model.Report{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx output should be a zip archive")
}
