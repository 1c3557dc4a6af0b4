package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/repocrawl"
)

// Ensure Enricher implements repocrawl.Enricher at compile time.
var _ repocrawl.Enricher = (*Enricher)(nil)

// Enricher fetches a repository page through a proxy and parses its detail.
type Enricher struct {
	Fetcher     repocrawl.Fetcher
	Parser      repocrawl.DetailParser
	RetryDelays []time.Duration
}

// Enrich returns the owner and language breakdown of the repository at ref.
// Every attempt uses proxy.
func (e *Enricher) Enrich(ctx context.Context, ref repocrawl.SearchReference, proxy string) (*repocrawl.EnrichedResult, error) {
	fetch := func(ctx context.Context, url string) (string, error) {
		return e.Fetcher.Fetch(ctx, url, proxy)
	}
	html, err := FetchWithRetry(ctx, ref.URL, fetch, e.RetryDelays)
	if err != nil {
		if ctx.Err() != nil || repocrawl.ErrorCode(err) == repocrawl.EINVALID {
			return nil, err
		}
		return nil, repocrawl.Errorf(repocrawl.EFETCH, "error fetching %s: %s", ref.URL, errorCause(err))
	}

	detail, err := e.Parser.ParseDetail(html)
	if err != nil {
		return nil, err
	}

	stats := detail.LanguageStats
	if stats == nil {
		stats = repocrawl.LanguageStats{}
	}
	return &repocrawl.EnrichedResult{
		URL:           ref.URL,
		Owner:         detail.Owner,
		LanguageStats: stats,
	}, nil
}
