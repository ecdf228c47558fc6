package research

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prsolans/agreement-mapper/internal/model"
	"github.com/prsolans/agreement-mapper/pkg/tavily"
)

// Searcher runs web searches for the pipeline and accumulates every result
// into a shared pool used later for quote verification. A nil underlying
// client degrades to the not-available path rather than failing the run.
type Searcher struct {
	client     tavily.Client
	limiter    *rate.Limiter
	maxResults int

	mu   sync.Mutex
	pool []model.SearchResult
}

// NewSearcher wraps a search client. ratePerSecond caps outbound request
// rate; maxResults caps results per query.
func NewSearcher(client tavily.Client, ratePerSecond float64, maxResults int) *Searcher {
	if ratePerSecond <= 0 {
		ratePerSecond = 4
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Searcher{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		maxResults: maxResults,
	}
}

// Available reports whether a search backend is configured.
func (s *Searcher) Available() bool {
	return s != nil && s.client != nil
}

// Search runs one query. Provider failures are logged and return an empty
// slice so research stages degrade instead of aborting.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) []model.SearchResult {
	if !s.Available() {
		return nil
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil
	}

	resp, err := s.client.Search(ctx, tavily.SearchRequest{
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		zap.L().Warn("search: query failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}

	results := make([]model.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, model.SearchResult{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}

	s.mu.Lock()
	s.pool = append(s.pool, results...)
	s.mu.Unlock()

	return results
}

// Reset drops the accumulated pool. The pipeline calls this at the start of
// each run so quotes only ever verify against that run's search results.
func (s *Searcher) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pool = nil
	s.mu.Unlock()
}

// Pool returns a copy of every result gathered so far across all queries.
func (s *Searcher) Pool() []model.SearchResult {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SearchResult, len(s.pool))
	copy(out, s.pool)
	return out
}

// FormatResults renders search results as a prompt-ready block. Callers that
// had no backend get a distinct sentinel so the prompt can say so.
func FormatResults(results []model.SearchResult, available bool) string {
	if !available {
		return "Web search not available"
	}
	if len(results) == 0 {
		return "No results found"
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "Source: %s\n", r.URL)
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
		fmt.Fprintf(&sb, "Content: %s\n", r.Content)
		sb.WriteString("---\n")
	}
	return strings.TrimSpace(sb.String())
}
