// Package slog provides log/slog decorators for repocrawl services.
package slog

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/repocrawl"
)

// Ensure LoggingFetcher implements repocrawl.Fetcher and repocrawl.ProxyLeaser.
var (
	_ repocrawl.Fetcher     = (*LoggingFetcher)(nil)
	_ repocrawl.ProxyLeaser = (*LoggingFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   repocrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next repocrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string, proxy string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"proxy", redactProxy(proxy),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url, proxy)
}

// Lease delegates to the wrapped fetcher when it holds per-proxy resources.
func (f *LoggingFetcher) Lease(proxy string) (release func()) {
	l, ok := f.next.(repocrawl.ProxyLeaser)
	if !ok {
		return func() {}
	}
	f.logger.Debug("proxy leased", "proxy", redactProxy(proxy))
	return l.Lease(proxy)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// redactProxy hides the password of a proxy endpoint with credentials.
func redactProxy(proxy string) string {
	if !strings.Contains(proxy, "@") {
		return proxy
	}
	raw := proxy
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
