package mock

import (
	"context"

	"github.com/fwojciec/repocrawl"
)

var (
	_ repocrawl.ProxySelector = (*ProxySelector)(nil)
	_ repocrawl.ProxyLister   = (*ProxyLister)(nil)
)

// ProxySelector is a mock implementation of repocrawl.ProxySelector.
type ProxySelector struct {
	SelectFn func(pool []string) (string, error)
}

func (s *ProxySelector) Select(pool []string) (string, error) {
	return s.SelectFn(pool)
}

// ProxyLister is a mock implementation of repocrawl.ProxyLister.
type ProxyLister struct {
	ListProxiesFn func(ctx context.Context) ([]string, error)
}

func (l *ProxyLister) ListProxies(ctx context.Context) ([]string, error) {
	return l.ListProxiesFn(ctx)
}
