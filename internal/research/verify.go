package research

import (
	"net/url"
	"strings"

	"github.com/prsolans/agreement-mapper/internal/model"
)

// Verification is the outcome of checking a claimed quote URL against the
// search results that produced the quote.
type Verification struct {
	Verified bool
	Status   model.VerificationStatus
	Matched  *model.SearchResult
}

// VerifyQuoteURL checks whether quoteURL appears in the search results. It
// tries three passes in order of strictness: exact URL match, then
// domain-plus-path (query string ignored, trailing slash stripped), then
// domain alone.
func VerifyQuoteURL(quoteURL string, results []model.SearchResult) Verification {
	if quoteURL == "" {
		return Verification{Status: model.VerificationNoURLProvided}
	}
	if len(results) == 0 {
		return Verification{Status: model.VerificationNoSearchResults}
	}

	normalized := strings.TrimSpace(strings.ToLower(quoteURL))

	for i := range results {
		resultURL := strings.TrimSpace(strings.ToLower(results[i].URL))
		if resultURL != "" && resultURL == normalized {
			return Verification{Verified: true, Status: model.VerificationExactMatch, Matched: &results[i]}
		}
	}

	if quoteParsed, err := url.Parse(normalized); err == nil {
		quoteDomain := quoteParsed.Host
		quotePath := strings.TrimRight(quoteParsed.Path, "/")

		for i := range results {
			resultURL := strings.TrimSpace(strings.ToLower(results[i].URL))
			if resultURL == "" {
				continue
			}
			resultParsed, err := url.Parse(resultURL)
			if err != nil {
				continue
			}
			if quoteDomain == resultParsed.Host && quotePath == strings.TrimRight(resultParsed.Path, "/") {
				return Verification{Verified: true, Status: model.VerificationPathMatch, Matched: &results[i]}
			}
		}

		for i := range results {
			resultURL := strings.TrimSpace(strings.ToLower(results[i].URL))
			if resultURL == "" {
				continue
			}
			resultParsed, err := url.Parse(resultURL)
			if err != nil {
				continue
			}
			if quoteDomain == resultParsed.Host {
				return Verification{Verified: true, Status: model.VerificationDomainMatch, Matched: &results[i]}
			}
		}
	}

	return Verification{Status: model.VerificationNotFound}
}
