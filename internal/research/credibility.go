package research

import (
	"net/url"
	"strings"
)

// Credibility tiers. A source falls into the highest tier whose keyword or
// domain list matches; unknown sources score 0.5.
var (
	tier1Keywords = []string{"investor relations", "ir.", "investors.", "sec filing", "10-k", "10-q", "8-k", "proxy statement"}
	tier1Domains  = []string{"sec.gov", "ir.", "investors."}

	tier2Keywords = []string{"earnings call", "earnings transcript", "annual report", "quarterly report", "press release"}
	tier2Domains  = []string{"seekingalpha.com/article", "fool.com/earnings"}

	tier3Keywords = []string{"interview", "conference", "keynote", "summit"}
	tier3Domains  = []string{"wsj.com", "ft.com", "bloomberg.com", "reuters.com", "cnbc.com"}

	tier4Domains = []string{"techcrunch.com", "theverge.com", "wired.com", "forbes.com", "businessinsider.com"}

	tier5Keywords = []string{"blog", "twitter", "linkedin post", "facebook"}
	tier5Domains  = []string{"medium.com", "blog.", "twitter.com", "linkedin.com", "facebook.com"}
)

// ScoreSourceCredibility scores a quote source from its description and URL.
// Official filings and investor-relations pages score highest, social media
// and blogs lowest.
func ScoreSourceCredibility(source, rawURL string) float64 {
	sourceLower := strings.ToLower(source)

	domain := ""
	if rawURL != "" {
		if parsed, err := url.Parse(rawURL); err == nil {
			domain = strings.ToLower(parsed.Host)
		}
	}

	if containsAny(sourceLower, tier1Keywords) {
		return 1.0
	}
	for _, d := range tier1Domains {
		if strings.HasPrefix(domain, d) || strings.Contains(domain, d) {
			return 1.0
		}
	}

	if containsAny(sourceLower, tier2Keywords) || containsAny(domain, tier2Domains) {
		return 0.9
	}

	if containsAny(sourceLower, tier3Keywords) || containsAny(domain, tier3Domains) {
		return 0.8
	}

	if containsAny(domain, tier4Domains) {
		return 0.6
	}

	if containsAny(sourceLower, tier5Keywords) || containsAny(domain, tier5Domains) {
		return 0.4
	}

	return 0.5
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
