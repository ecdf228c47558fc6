package model

// SearchResult is one ranked document returned by the search provider.
// Results are retained in an accumulation pool for quote verification.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// VerificationStatus is the categorical outcome of matching a cited URL
// against previously fetched search results.
type VerificationStatus string

const (
	VerificationExactMatch      VerificationStatus = "exact_match"
	VerificationPathMatch       VerificationStatus = "path_match"
	VerificationDomainMatch     VerificationStatus = "domain_match"
	VerificationNotFound        VerificationStatus = "not_found"
	VerificationNoURLProvided   VerificationStatus = "no_url_provided"
	VerificationNoSearchResults VerificationStatus = "no_search_results"
)

// Quote is a direct executive quote extracted by the priorities stage.
// The verification fields are filled in by quote enrichment after phase 1.
type Quote struct {
	Executive string `json:"executive"`
	QuoteText string `json:"quote"`
	Source    string `json:"source"`
	Date      string `json:"date,omitempty"`
	URL       string `json:"url,omitempty"`

	ConfidenceScore    float64            `json:"confidence_score,omitempty"`
	SourceCredibility  float64            `json:"source_credibility,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	Verified           bool               `json:"verified,omitempty"`
}
