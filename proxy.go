package repocrawl

import "context"

// ProxySelector picks the proxy used for one crawl.
type ProxySelector interface {
	// Select returns a member of pool.
	// Returns ENOPROXY if pool is empty.
	Select(pool []string) (string, error)
}

// ProxyLister lists proxy addresses currently published by a proxy source.
type ProxyLister interface {
	// ListProxies returns EUNAVAILABLE if the source cannot be reached.
	ListProxies(ctx context.Context) ([]string, error)
}
