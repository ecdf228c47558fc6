package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prsolans/agreement-mapper/internal/model"
)

func TestComputePortfolio(t *testing.T) {
	opportunities := []model.Opportunity{
		{
			ValueQuantification: model.ValueQuantification{
				TotalAnnualValue:   "$10M",
				ImplementationCost: "$1M",
			},
			Implementation: model.Implementation{Priority: "high"},
		},
		{
			ValueQuantification: model.ValueQuantification{
				TotalAnnualValue:   "$5M",
				ImplementationCost: "$500K",
			},
			Implementation: model.Implementation{Priority: "Medium"},
		},
	}

	ps := ComputePortfolio(opportunities)

	assert.Equal(t, 2, ps.TotalOpportunities)
	assert.Equal(t, "$15.0M", ps.TotalAnnualValue)
	assert.Equal(t, "$1.5M", ps.TotalImplementationCost)
	// (15M - 1.5M) / 1.5M = 900%
	assert.Equal(t, "900%", ps.PortfolioROI)
	// 1.5M / (15M / 12) = 1.2 months
	assert.Equal(t, "1 months", ps.PortfolioPayback)
	assert.Equal(t, 1, ps.HighPriorityOpportunities)
	assert.Equal(t, 1, ps.MediumPriorityOpportunities)
	assert.Equal(t, 0, ps.LowPriorityOpportunities)
}

func TestComputePortfolioEmpty(t *testing.T) {
	ps := ComputePortfolio(nil)
	assert.Equal(t, 0, ps.TotalOpportunities)
	assert.Equal(t, "$0", ps.TotalAnnualValue)
	assert.Equal(t, "$0", ps.TotalImplementationCost)
	assert.Equal(t, "N/A", ps.PortfolioROI)
	assert.Equal(t, "N/A", ps.PortfolioPayback)
}

func TestComputePortfolioPaybackInYears(t *testing.T) {
	ps := ComputePortfolio([]model.Opportunity{{
		ValueQuantification: model.ValueQuantification{
			TotalAnnualValue:   "$1M",
			ImplementationCost: "$2M",
		},
	}})
	// 2M / (1M / 12) = 24 months = 2.0 years
	assert.Equal(t, "2.0 years", ps.PortfolioPayback)
}

func TestComputePortfolioDefaultsMissingPriorityToMedium(t *testing.T) {
	ps := ComputePortfolio([]model.Opportunity{
		{},
		{Implementation: model.Implementation{Priority: "urgent"}}, // unrecognized
	})
	assert.Equal(t, 1, ps.MediumPriorityOpportunities)
	assert.Equal(t, 0, ps.HighPriorityOpportunities)
	assert.Equal(t, 0, ps.LowPriorityOpportunities)
}

func TestMapPrioritiesToCapabilities(t *testing.T) {
	priorities := []model.StrategicPriority{
		{PriorityID: "priority_001", PriorityName: "Growing the Core", BusinessImpact: "revenue", Urgency: "high"},
		{PriorityID: "priority_002", PriorityName: "New Markets"},
		{PriorityID: "priority_003", PriorityName: "Operational Excellence"},
	}
	opportunities := []model.Opportunity{
		{OpportunityID: "opp_001", Title: "Cycle Time Reduction", UseCaseName: "Accelerate Onboarding", Capabilities: "Automated routing."},
		{OpportunityID: "opp_002", Title: "Renewal Capture", Description: "Catch expirations."},
		{OpportunityID: "opp_003", Title: "Obligation Tracking"},
	}

	mappings := MapPrioritiesToCapabilities(priorities, opportunities)
	require.Len(t, mappings, 3)

	assert.Equal(t, "priority_001", mappings[0].PriorityID)
	assert.Equal(t, "opp_001", mappings[0].CapabilityID)
	assert.Equal(t, "Accelerate Onboarding", mappings[0].CapabilityName)
	assert.Equal(t, "Automated routing.", mappings[0].CapabilityDescription)
	assert.Equal(t, "high", mappings[0].Urgency)

	// Falls back to title/description when use case fields are absent.
	assert.Equal(t, "Renewal Capture", mappings[1].CapabilityName)
	assert.Equal(t, "Catch expirations.", mappings[1].CapabilityDescription)
}

func TestMapPrioritiesToCapabilitiesUneven(t *testing.T) {
	priorities := []model.StrategicPriority{
		{PriorityID: "priority_001"}, {PriorityID: "priority_002"}, {PriorityID: "priority_003"},
	}
	opportunities := []model.Opportunity{
		{OpportunityID: "opp_001"}, {OpportunityID: "opp_002"},
	}

	mappings := MapPrioritiesToCapabilities(priorities, opportunities)
	require.Len(t, mappings, 2)
	assert.Equal(t, "opp_002", mappings[1].CapabilityID)

	assert.Nil(t, MapPrioritiesToCapabilities(nil, opportunities))
	assert.Nil(t, MapPrioritiesToCapabilities(priorities, nil))
}

func TestSummarizeProducts(t *testing.T) {
	opportunities := []model.Opportunity{
		{
			Title: "Opp A",
			RecommendedProducts: []model.ProductRecommendation{
				{ProductName: "CLM", Category: "Lifecycle", KeyCapabilitiesUsed: []string{"routing", "clauses"}},
			},
		},
		{
			Title: "Opp B",
			RecommendedProducts: []model.ProductRecommendation{
				{ProductName: "CLM", KeyCapabilitiesUsed: []string{"routing", "analytics"}},
				{ProductName: "eSignature"},
			},
		},
	}

	summary := SummarizeProducts(opportunities)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalProducts)

	clm := summary.Products[0]
	assert.Equal(t, "CLM", clm.ProductName)
	assert.Equal(t, []string{"Opp A", "Opp B"}, clm.RecommendedFor)
	assert.Equal(t, []string{"routing", "clauses", "analytics"}, clm.Capabilities)

	assert.Nil(t, SummarizeProducts(nil))
	assert.Nil(t, SummarizeProducts([]model.Opportunity{{Title: "none"}}))
}

func TestCurrencyRoundTrip(t *testing.T) {
	tests := []struct {
		raw  float64
		want string
	}{
		{450, "$450"},
		{12_000, "$12K"},
		{2_400_000, "$2.4M"},
		{15_450_000, "$15.4M"},
		{1_200_000_000, "$1.2B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, model.FormatCurrency(tt.raw))
	}

	assert.InDelta(t, 12e6, model.ParseCurrency("$12M"), 1e-9)
	assert.InDelta(t, 2.3e9, model.ParseCurrency("$2.3B"), 1e-9)
	assert.InDelta(t, 450e3, model.ParseCurrency("450K"), 1e-9)
	assert.InDelta(t, 1234, model.ParseCurrency("$1,234"), 1e-9)
	assert.Zero(t, model.ParseCurrency("N/A"))
	assert.Zero(t, model.ParseCurrency("unknown"))
}
