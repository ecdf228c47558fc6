package research

import (
	"fmt"
	"strings"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// ComputePortfolio rolls the opportunity list up into portfolio totals. The
// rollup is pure arithmetic over value_quantification strings and is
// recomputed fresh every run rather than asked of the model.
func ComputePortfolio(opportunities []model.Opportunity) model.PortfolioSummary {
	if len(opportunities) == 0 {
		return model.PortfolioSummary{
			TotalAnnualValue:        "$0",
			TotalImplementationCost: "$0",
			PortfolioROI:            "N/A",
			PortfolioPayback:        "N/A",
		}
	}

	var totalValue, totalCost float64
	counts := map[string]int{"high": 0, "medium": 0, "low": 0}

	for _, opp := range opportunities {
		totalValue += model.ParseCurrency(opp.ValueQuantification.TotalAnnualValue)
		totalCost += model.ParseCurrency(opp.ValueQuantification.ImplementationCost)

		priority := strings.ToLower(opp.Implementation.Priority)
		if priority == "" {
			priority = "medium"
		}
		if _, ok := counts[priority]; ok {
			counts[priority]++
		}
	}

	roi := 0.0
	if totalCost > 0 {
		roi = (totalValue - totalCost) / totalCost * 100
	}
	paybackMonths := 0.0
	if totalValue > 0 {
		paybackMonths = totalCost / (totalValue / 12)
	}

	payback := fmt.Sprintf("%.0f months", paybackMonths)
	if paybackMonths >= 12 {
		payback = fmt.Sprintf("%.1f years", paybackMonths/12)
	}

	return model.PortfolioSummary{
		TotalOpportunities:          len(opportunities),
		TotalAnnualValue:            model.FormatCurrency(totalValue),
		TotalImplementationCost:     model.FormatCurrency(totalCost),
		PortfolioROI:                fmt.Sprintf("%.0f%%", roi),
		PortfolioPayback:            payback,
		HighPriorityOpportunities:   counts["high"],
		MediumPriorityOpportunities: counts["medium"],
		LowPriorityOpportunities:    counts["low"],
	}
}

// MapPrioritiesToCapabilities pairs priorities with opportunities by
// position for side-by-side presentation. Uneven lists pair the first
// min(n, m) entries and drop the rest.
func MapPrioritiesToCapabilities(priorities []model.StrategicPriority, opportunities []model.Opportunity) []model.PriorityMapping {
	if len(priorities) == 0 || len(opportunities) == 0 {
		return nil
	}

	n := len(priorities)
	if len(opportunities) < n {
		n = len(opportunities)
	}

	mappings := make([]model.PriorityMapping, 0, n)
	for i := 0; i < n; i++ {
		pr := priorities[i]
		opp := opportunities[i]

		name := opp.UseCaseName
		if name == "" {
			name = opp.Title
		}
		description := opp.Capabilities
		if description == "" {
			description = opp.Description
		}

		mappings = append(mappings, model.PriorityMapping{
			PriorityID:            pr.PriorityID,
			PriorityName:          pr.PriorityName,
			PriorityDescription:   pr.PriorityDescription,
			CapabilityID:          opp.OpportunityID,
			CapabilityName:        name,
			CapabilityDescription: description,
			BusinessImpact:        pr.BusinessImpact,
			Urgency:               pr.Urgency,
		})
	}
	return mappings
}

// SummarizeProducts aggregates product recommendations across opportunities,
// deduplicating by product name while collecting which opportunities
// recommended each product and why.
func SummarizeProducts(opportunities []model.Opportunity) *model.ProductSummary {
	index := make(map[string]*model.ProductUsage)
	var order []string

	for _, opp := range opportunities {
		for _, rec := range opp.RecommendedProducts {
			if rec.ProductName == "" {
				continue
			}
			usage, ok := index[rec.ProductName]
			if !ok {
				usage = &model.ProductUsage{
					ProductName: rec.ProductName,
					Category:    rec.Category,
				}
				index[rec.ProductName] = usage
				order = append(order, rec.ProductName)
			}
			usage.RecommendedFor = append(usage.RecommendedFor, opp.Title)
			usage.Capabilities = appendUnique(usage.Capabilities, rec.KeyCapabilitiesUsed...)
		}
	}

	if len(order) == 0 {
		return nil
	}

	products := make([]model.ProductUsage, 0, len(order))
	for _, name := range order {
		products = append(products, *index[name])
	}
	return &model.ProductSummary{
		TotalProducts: len(products),
		Products:      products,
	}
}

func appendUnique(existing []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, e := range existing {
			if e == item {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, item)
		}
	}
	return existing
}
