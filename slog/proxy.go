package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repocrawl"
)

// Ensure LoggingProxyLister implements repocrawl.ProxyLister.
var _ repocrawl.ProxyLister = (*LoggingProxyLister)(nil)

// LoggingProxyLister wraps a ProxyLister with logging.
type LoggingProxyLister struct {
	next   repocrawl.ProxyLister
	logger *slog.Logger
}

// NewLoggingProxyLister creates a new LoggingProxyLister.
func NewLoggingProxyLister(next repocrawl.ProxyLister, logger *slog.Logger) *LoggingProxyLister {
	return &LoggingProxyLister{next: next, logger: logger}
}

// ListProxies delegates to the wrapped lister and logs the operation.
func (l *LoggingProxyLister) ListProxies(ctx context.Context) (proxies []string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("proxy listing",
			"count", len(proxies),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.ListProxies(ctx)
}
