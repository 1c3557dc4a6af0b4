package mock

import (
	"context"

	"github.com/fwojciec/repocrawl"
)

var (
	_ repocrawl.Crawler  = (*Crawler)(nil)
	_ repocrawl.Enricher = (*Enricher)(nil)
)

// Crawler is a mock implementation of repocrawl.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, req repocrawl.CrawlRequest) ([]repocrawl.CrawlResult, error)
}

func (c *Crawler) Crawl(ctx context.Context, req repocrawl.CrawlRequest) ([]repocrawl.CrawlResult, error) {
	return c.CrawlFn(ctx, req)
}

// Enricher is a mock implementation of repocrawl.Enricher.
type Enricher struct {
	EnrichFn func(ctx context.Context, ref repocrawl.SearchReference, proxy string) (*repocrawl.EnrichedResult, error)
}

func (e *Enricher) Enrich(ctx context.Context, ref repocrawl.SearchReference, proxy string) (*repocrawl.EnrichedResult, error) {
	return e.EnrichFn(ctx, ref, proxy)
}
