package research

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// Confidence factor weights. They sum to 1.0 so the final score stays in
// [0, 1].
const (
	weightCredibility  = 0.4
	weightVerification = 0.3
	weightCompleteness = 0.2
	weightRecency      = 0.1
)

var yearPattern = regexp.MustCompile(`20\d{2}`)

// CalculateQuoteConfidence scores a quote from source credibility, URL
// verification against search results, field completeness, and date recency.
// The result is rounded to two decimal places.
func CalculateQuoteConfidence(q model.Quote, results []model.SearchResult) float64 {
	credibility := ScoreSourceCredibility(q.Source, q.URL)

	// Without a result pool to verify against, verification is neutral
	// rather than penalized.
	verification := 0.6
	if len(results) > 0 {
		v := VerifyQuoteURL(q.URL, results)
		switch {
		case v.Status == model.VerificationExactMatch:
			verification = 1.0
		case v.Status == model.VerificationPathMatch:
			verification = 0.9
		case v.Status == model.VerificationDomainMatch:
			verification = 0.7
		case v.Verified:
			verification = 0.5
		default:
			verification = 0.3
		}
	}

	completeness := 0.0
	if q.QuoteText != "" {
		completeness += 0.3
	}
	if q.Executive != "" {
		completeness += 0.2
	}
	if q.Source != "" {
		completeness += 0.2
	}
	if q.URL != "" {
		completeness += 0.2
	}
	if q.Date != "" {
		completeness += 0.1
	}

	recency := scoreRecency(q.Date)

	total := credibility*weightCredibility +
		verification*weightVerification +
		completeness*weightCompleteness +
		recency*weightRecency

	return math.Round(total*100) / 100
}

// scoreRecency extracts a four-digit year from a free-form date string and
// scores how recent it is. Dates with no recognizable year are neutral.
func scoreRecency(date string) float64 {
	if date == "" {
		return 0.5
	}
	match := yearPattern.FindString(date)
	if match == "" {
		return 0.5
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0.5
	}

	yearsAgo := time.Now().Year() - year
	switch {
	case yearsAgo <= 1:
		return 1.0
	case yearsAgo == 2:
		return 0.8
	case yearsAgo <= 5:
		return 0.6
	default:
		return 0.3
	}
}

// EnrichQuotes scores and verifies every quote attached to the strategic
// priorities in place, using the shared search result pool from the priority
// research searches.
func EnrichQuotes(priorities []model.StrategicPriority, pool []model.SearchResult) {
	for i := range priorities {
		for j := range priorities[i].ExecutiveQuotes {
			q := &priorities[i].ExecutiveQuotes[j]
			q.SourceCredibility = ScoreSourceCredibility(q.Source, q.URL)
			q.ConfidenceScore = CalculateQuoteConfidence(*q, pool)

			v := VerifyQuoteURL(q.URL, pool)
			q.Verified = v.Verified
			q.VerificationStatus = v.Status
		}
	}
}
