// Package http provides net/http implementations of repocrawl.Fetcher and
// repocrawl.ProxyLister. Every request to the crawled site is routed through
// the proxy chosen for the crawl.
package http

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/repocrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize caps the number of bytes read from a response.
const DefaultMaxBodySize = 10 * 1024 * 1024

// Ensure Fetcher implements repocrawl.Fetcher and repocrawl.ProxyLeaser at compile time.
var (
	_ repocrawl.Fetcher     = (*Fetcher)(nil)
	_ repocrawl.ProxyLeaser = (*Fetcher)(nil)
)

// Fetcher retrieves pages through HTTP or SOCKS5 proxies.
// While a proxy is leased its client is shared so connections are reused
// within a crawl; the client is dropped when the last lease ends. Fetches
// through an unleased proxy use a one-off client.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	headers map[string]string
	timeout time.Duration

	mu      sync.Mutex
	clients map[string]*leasedClient
}

// leasedClient is the shared client of one proxy and its lease count.
// client is nil until the first fetch.
type leasedClient struct {
	client *http.Client
	leases int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeaders sets the headers sent with every request.
// Defaults to repocrawl.DefaultHeaders if not specified.
func WithHeaders(h map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = maps.Clone(h)
	}
}

// NewFetcher creates a new proxy-aware Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		headers: repocrawl.DefaultHeaders(),
		timeout: DefaultFetchTimeout,
		clients: make(map[string]*leasedClient),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the body of url through proxy.
func (f *Fetcher) Fetch(ctx context.Context, url string, proxy string) (string, error) {
	client, done, err := f.client(proxy)
	if err != nil {
		return "", err
	}
	defer done()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", repocrawl.Errorf(repocrawl.EINVALID, "invalid URL %q: %v", url, err)
	}
	setHeaders(req, f.headers)

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("fetch %s: %w", url, ctxErr)
		}
		return "", repocrawl.Errorf(repocrawl.EFETCH, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", repocrawl.Errorf(repocrawl.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
	if err != nil {
		return "", repocrawl.Errorf(repocrawl.EFETCH, "reading %s: %v", url, err)
	}

	return string(body), nil
}

// Lease keeps the client for proxy alive until release is called.
func (f *Fetcher) Lease(proxy string) (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lc, ok := f.clients[proxy]
	if !ok {
		lc = &leasedClient{}
		f.clients[proxy] = lc
	}
	lc.leases++

	var once sync.Once
	return func() {
		once.Do(func() { f.release(proxy, lc) })
	}
}

// Leased returns the number of proxies currently leased.
func (f *Fetcher) Leased() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close releases idle connections held for every proxy and ends all leases.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for proxy, lc := range f.clients {
		if lc.client != nil {
			lc.client.CloseIdleConnections()
		}
		delete(f.clients, proxy)
	}
	return nil
}

func (f *Fetcher) release(proxy string, lc *leasedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lc.leases--
	if lc.leases > 0 {
		return
	}
	if f.clients[proxy] == lc {
		delete(f.clients, proxy)
	}
	if lc.client != nil {
		lc.client.CloseIdleConnections()
	}
}

// client returns the client for proxy and a func to call once the response
// is consumed. Leased proxies share one client; others get a throwaway one.
func (f *Fetcher) client(proxy string) (*http.Client, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lc, leased := f.clients[proxy]
	if leased && lc.client != nil {
		return lc.client, func() {}, nil
	}

	transport, err := NewProxyTransport(proxy)
	if err != nil {
		return nil, nil, err
	}
	c := &http.Client{
		Transport: transport,
		Timeout:   f.timeout,
	}
	if leased {
		lc.client = c
		return c, func() {}, nil
	}
	return c, c.CloseIdleConnections, nil
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
