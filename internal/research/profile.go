package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const profileSystem = "You are a business research analyst. Provide accurate, structured data about companies using publicly available information. Always return valid JSON."

const brandSystem = "You are a brand design analyst. Research company brand colors from public sources and return hex color codes in JSON format."

// researchProfile builds the company profile from a web search pass, then
// asks for brand colors in a follow-up call. Brand colors are cosmetic and
// never fail the stage.
func (p *Pipeline) researchProfile(ctx context.Context, companyName string) (model.CompanyProfile, *model.BrandColors, error) {
	results := p.searcher.Search(ctx,
		fmt.Sprintf("%s company profile headquarters revenue employees industry business model", companyName),
		p.cfg.Research.MaxSearchResults,
	)

	prompt := fmt.Sprintf(`Based on the following web search results about %s, provide detailed information in JSON format:

WEB SEARCH RESULTS:
%s

Using the above search results, extract and structure the following information:

Required fields:
- legal_name: Official registered company name
- brand_names: Array of brand names used
- industry: Primary industry classification
- year_founded: Year established
- headquarters: City and country location
- ownership_structure: Public/Private/Family-owned/etc
- scale:
  - annual_revenue: Latest annual revenue (with $ symbol)
  - revenue_numeric: Revenue as number
  - employees: Employee count
  - locations: Number of office locations
  - countries: Countries of operation
  - customers: Customer count or description
- business_model:
  - primary_revenue_model: How the company makes money
  - key_differentiators: Array of 3-5 competitive advantages
  - customer_segments: Array of target customer types
- strategic_initiatives: Array of current strategic initiatives with:
  - initiative: Name/description
  - timeline: Expected timeframe
  - priority: high/medium/low
  - investment: Investment amount if known
  - impact_areas: Array of business areas impacted
- sources: Array of data sources used
- confidence: high/medium/low based on data availability

Return ONLY valid JSON. Use web search and public information. If data is not available, use "N/A" or null.`,
		companyName, FormatResults(results, p.searcher.Available()))

	var profile model.CompanyProfile
	if err := p.completeJSON(ctx, "profile", profileSystem, prompt, tempProfile, 0, StatePhase1Running, &profile); err != nil {
		return model.CompanyProfile{}, nil, err
	}

	colors := p.researchBrandColors(ctx, companyName, profile.Industry)
	return profile, colors, nil
}

// researchBrandColors asks for the company's brand palette. Failures degrade
// to no colors so exporters fall back to the default palette.
func (p *Pipeline) researchBrandColors(ctx context.Context, companyName, industry string) *model.BrandColors {
	if industry == "" {
		industry = "N/A"
	}
	prompt := fmt.Sprintf(`Research the brand colors for %s.

Based on their website, marketing materials, and brand guidelines, identify:

Required fields (return as hex codes):
- primary_color: Main brand color (hex format, e.g., "#FF0000")
- secondary_color: Secondary brand color (hex format)
- accent_color: Accent or tertiary color (hex format)
- text_color: Primary text color (hex format)
- background_color: Background color (hex format)

Return ONLY valid JSON with hex color codes. Use publicly available information from the company's website and brand materials.
If specific colors cannot be determined with confidence, use industry-appropriate defaults based on the company's industry: %s.`,
		companyName, industry)

	var colors model.BrandColors
	if err := p.completeJSON(ctx, "brand_colors", brandSystem, prompt, tempProfile, 0, StatePhase1Running, &colors); err != nil {
		zap.L().Warn("research: brand colors unavailable", zap.Error(err))
		return nil
	}
	if colors.Primary == "" {
		return nil
	}
	return &colors
}
