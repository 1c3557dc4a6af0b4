package mock

import (
	"context"

	"github.com/fwojciec/repocrawl"
)

var (
	_ repocrawl.Fetcher     = (*Fetcher)(nil)
	_ repocrawl.ProxyLeaser = (*ProxyLeaser)(nil)
)

// Fetcher is a mock implementation of repocrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, proxy string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, proxy string) (string, error) {
	return f.FetchFn(ctx, url, proxy)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// ProxyLeaser is a mock implementation of repocrawl.ProxyLeaser.
type ProxyLeaser struct {
	LeaseFn func(proxy string) func()
}

func (l *ProxyLeaser) Lease(proxy string) func() {
	return l.LeaseFn(proxy)
}
