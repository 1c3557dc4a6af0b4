package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/repocrawl"
)

var (
	_ repocrawl.Crawler  = (*LoggingCrawler)(nil)
	_ repocrawl.Enricher = (*LoggingEnricher)(nil)
)

// LoggingCrawler wraps a Crawler with logging.
type LoggingCrawler struct {
	next   repocrawl.Crawler
	logger *slog.Logger
}

// NewLoggingCrawler creates a new LoggingCrawler.
func NewLoggingCrawler(next repocrawl.Crawler, logger *slog.Logger) *LoggingCrawler {
	return &LoggingCrawler{next: next, logger: logger}
}

// Crawl delegates to the wrapped crawler and logs the outcome.
func (c *LoggingCrawler) Crawl(ctx context.Context, req repocrawl.CrawlRequest) (results []repocrawl.CrawlResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"keywords", strings.Join(req.Keywords, " "),
			"type", req.Mode,
			"proxies", len(req.Proxies),
			"count", len(results),
			"duration", time.Since(begin),
		}
		if err != nil {
			c.logger.Error("crawl", append(attrs, "code", repocrawl.ErrorCode(err), "err", err)...)
			return
		}
		c.logger.Info("crawl", attrs...)
	}(time.Now())
	return c.next.Crawl(ctx, req)
}

// LoggingEnricher wraps an Enricher so that failed workers are never silent.
type LoggingEnricher struct {
	next   repocrawl.Enricher
	logger *slog.Logger
}

// NewLoggingEnricher creates a new LoggingEnricher.
func NewLoggingEnricher(next repocrawl.Enricher, logger *slog.Logger) *LoggingEnricher {
	return &LoggingEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs the outcome.
func (e *LoggingEnricher) Enrich(ctx context.Context, ref repocrawl.SearchReference, proxy string) (result *repocrawl.EnrichedResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Warn("enrich failed",
				"url", ref.URL,
				"proxy", redactProxy(proxy),
				"code", repocrawl.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Debug("enrich",
			"url", ref.URL,
			"owner", result.Owner,
			"languages", len(result.LanguageStats),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Enrich(ctx, ref, proxy)
}
