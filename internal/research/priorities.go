package research

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/prsolans/agreement-mapper/internal/model"
)

const prioritiesSystem = "You are a strategic business analyst. Analyze company information and identify top strategic priorities that drive business growth."

// researchPriorities identifies the top 3 strategic priorities from three
// search passes: executive statements, earnings transcripts, and a
// historical pass for evolution tracking.
func (p *Pipeline) researchPriorities(ctx context.Context, companyName string) ([]model.StrategicPriority, error) {
	execResults := p.searcher.Search(ctx,
		fmt.Sprintf("%s CEO CFO interview 2024 2025 strategy vision keynote", companyName), 7)
	earningsResults := p.searcher.Search(ctx,
		fmt.Sprintf("%s earnings call transcript Q3 Q4 2024 strategic priorities initiatives", companyName), 7)
	historicalResults := p.searcher.Search(ctx,
		fmt.Sprintf("%s strategic initiatives announcements expansion 2023 2024", companyName), 6)

	available := p.searcher.Available()
	combined := fmt.Sprintf(`=== EXECUTIVE INTERVIEWS & STATEMENTS (2024-2025) ===
%s

=== EARNINGS CALL TRANSCRIPTS (Q3/Q4 2024) ===
%s

=== HISTORICAL CONTEXT (2023-2024) ===
%s`,
		FormatResults(execResults, available),
		FormatResults(earningsResults, available),
		FormatResults(historicalResults, available))

	prompt := fmt.Sprintf(`Based on the following web search results about %s, identify their top 3 strategic business priorities.

WEB SEARCH RESULTS:
%s

Using the above search results, analyze the company's:
- Current strategic initiatives and public announcements
- Recent earnings calls and investor presentations
- Industry trends and competitive positioning
- Business model and growth areas
- Executive leadership focus areas
- How priorities have evolved over the past 12 months

CRITICAL INSTRUCTIONS FOR EXECUTIVE QUOTES:
- Extract direct quotes from named executives (CEO, CFO, COO, etc.)
- ONLY include quotes where you can identify a verifiable source URL from the search results above
- Each quote MUST include: exact quote text, executive name/title, source name, date, and source URL
- If you cannot verify the source URL from the search results, DO NOT include the quote

For each priority, provide in JSON format:
- priority_id: Unique identifier (e.g., "priority_001")
- priority_name: Short, impactful name (2-4 words, e.g., "Growing the Core", "Entering New Markets")
- priority_description: Detailed description of what the company is trying to achieve (15-25 words, specific metrics if available)
- business_impact: Why this priority matters to the business
- related_initiatives: Array of related strategic initiatives or programs
- urgency: high/medium/low
- executive_owner: Name and title of the executive who owns this priority (from search results if available)
- executive_responsibility: Brief description of why this executive owns this priority (10-15 words)
- executive_quotes: Array of direct quotes (ONLY with verified URLs from search results):
  - executive: "Name, Title" (e.g., "Jane Smith, CEO")
  - quote: Exact quote text from the source
  - source: Name of source document/interview
  - date: Date of statement (e.g., "Oct 2024", "Q3 2024")
  - url: Full source URL from search results above
- evolution: How this priority has changed over past 12 months:
  - current_focus: What the priority focuses on now (2024-2025)
  - previous_focus: What it was 12 months ago, if different (2023)
  - change_indicator: "New priority" / "Increased emphasis" / "Shifted focus" / "Consistent focus"
- sources: Array of 2-3 specific sources

Focus on priorities that would benefit from intelligent agreement management and automation.

Return ONLY valid JSON with an array of 3 priorities under the key "priorities".`,
		companyName, combined)

	var raw json.RawMessage
	if err := p.completeJSON(ctx, "priorities", prioritiesSystem, prompt, tempPriorities, 0, StatePhase1Running, &raw); err != nil {
		return nil, err
	}

	priorities, err := decodeList[model.StrategicPriority](raw, "priorities", "strategic_priorities")
	if err != nil {
		return nil, eris.Wrap(err, "research: priorities")
	}
	if len(priorities) == 0 {
		return nil, eris.New("research: no strategic priorities identified")
	}
	return priorities, nil
}
