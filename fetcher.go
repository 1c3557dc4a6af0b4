package repocrawl

import "context"

// Fetcher retrieves a page through a proxy.
// Implementations send the same fixed request headers on every call.
type Fetcher interface {
	// Fetch performs a GET of url through proxy and returns the body.
	// Transport failures, including proxy failures, are reported as EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string, proxy string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ProxyLeaser is implemented by fetchers that keep per-proxy resources, such
// as connection pools or browsers. Resources for a proxy live only while at
// least one lease on it is held; the returned release func ends the lease and
// is safe to call more than once.
type ProxyLeaser interface {
	Lease(proxy string) (release func())
}
