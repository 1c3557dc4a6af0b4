// Package rod provides a repocrawl.Fetcher that renders pages in headless
// Chrome, for search pages whose results are filled in by JavaScript.
package rod

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/repocrawl"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 60 * time.Second

// Ensure Fetcher implements repocrawl.Fetcher and repocrawl.ProxyLeaser at compile time.
var (
	_ repocrawl.Fetcher     = (*Fetcher)(nil)
	_ repocrawl.ProxyLeaser = (*Fetcher)(nil)
)

// Fetcher retrieves rendered HTML through a proxy using Chrome automation.
// Chrome takes its proxy at launch, so each leased proxy gets its own browser,
// started on first use and shut down when the last lease ends. Fetches through
// an unleased proxy start a browser for that one page.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	headers  map[string]string
	timeout  time.Duration
	maxPages int
	launch   LaunchFunc

	mu       sync.Mutex
	managers map[string]*leasedManager
	closed   bool
}

// leasedManager is the browser of one proxy and its lease count.
// bm is nil until the first fetch.
type leasedManager struct {
	bm     *BrowserManager
	leases int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeaders sets the headers sent with every navigation.
// The User-Agent entry overrides the browser's user agent.
func WithHeaders(h map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = h
	}
}

// WithBrowserMaxPages sets how many pages a browser serves before recycling.
func WithBrowserMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithBrowserLaunch replaces the function that starts Chrome.
func WithBrowserLaunch(fn LaunchFunc) Option {
	return func(f *Fetcher) {
		f.launch = fn
	}
}

// NewFetcher creates a Fetcher. Browsers are launched lazily, so creating a
// Fetcher never fails. Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		headers:  repocrawl.DefaultHeaders(),
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
		launch:   LaunchChrome,
		managers: make(map[string]*leasedManager),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to url through proxy and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string, proxy string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bm, done, err := f.manager(proxy)
	if err != nil {
		return "", err
	}
	defer done()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser := bm.Browser()
	if browser == nil {
		return "", repocrawl.Errorf(repocrawl.EFETCH, "browser for %s is closed", bm.Proxy())
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", repocrawl.Errorf(repocrawl.EFETCH, "opening page: %v", err)
	}
	defer page.Close()
	defer bm.PageDone()

	page = page.Context(ctx)

	if ua, ok := f.headers["User-Agent"]; ok {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			return "", fetchError(ctx, err)
		}
	}
	if extra := extraHeaders(f.headers); len(extra) > 0 {
		if _, err := page.SetExtraHeaders(extra); err != nil {
			return "", fetchError(ctx, err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", fetchError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(ctx, err)
	}
	return html, nil
}

// Lease keeps the browser for proxy running until release is called.
// Endpoints that ProxyServer rejects are not tracked; Fetch reports them.
func (f *Fetcher) Lease(proxy string) (release func()) {
	server, err := ProxyServer(proxy)
	if err != nil {
		return func() {}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	lm, ok := f.managers[server]
	if !ok {
		lm = &leasedManager{}
		f.managers[server] = lm
	}
	lm.leases++

	var once sync.Once
	return func() {
		once.Do(func() { f.release(server, lm) })
	}
}

// Leased returns the number of proxies currently leased.
func (f *Fetcher) Leased() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.managers)
}

// Close releases every browser and ends all leases. Close is safe to call
// multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	var errs []error
	for server, lm := range f.managers {
		if lm.bm != nil {
			errs = append(errs, lm.bm.Close())
		}
		delete(f.managers, server)
	}
	return errors.Join(errs...)
}

func (f *Fetcher) release(server string, lm *leasedManager) {
	f.mu.Lock()
	defer f.mu.Unlock()

	lm.leases--
	if lm.leases > 0 {
		return
	}
	if f.managers[server] == lm {
		delete(f.managers, server)
	}
	if lm.bm != nil {
		_ = lm.bm.Close()
	}
}

// manager returns the browser bound to proxy and a func to call after the
// page is done. Leased proxies share one browser; others get a throwaway one.
func (f *Fetcher) manager(proxy string) (*BrowserManager, func(), error) {
	server, err := ProxyServer(proxy)
	if err != nil {
		return nil, nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, nil, repocrawl.Errorf(repocrawl.EINVALID, "fetcher is closed")
	}
	lm, leased := f.managers[server]
	if leased && lm.bm != nil {
		return lm.bm, func() {}, nil
	}

	bm, err := NewBrowserManager(WithProxy(server), WithMaxPages(f.maxPages), WithLaunch(f.launch))
	if err != nil {
		return nil, nil, repocrawl.Errorf(repocrawl.EFETCH, "%v", err)
	}
	if leased {
		lm.bm = bm
		return bm, func() {}, nil
	}
	return bm, func() { _ = bm.Close() }, nil
}

// ProxyServer converts a proxy endpoint into Chrome's --proxy-server form.
// Bare host:port endpoints are treated as HTTP proxies.
func ProxyServer(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", repocrawl.Errorf(repocrawl.EINVALID, "proxy cannot be empty")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", repocrawl.Errorf(repocrawl.EINVALID, "invalid proxy %q", endpoint)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	case "socks5h":
		u.Scheme = "socks5"
	default:
		return "", repocrawl.Errorf(repocrawl.EINVALID, "unsupported proxy scheme %q", u.Scheme)
	}
	if u.User != nil {
		return "", repocrawl.Errorf(repocrawl.EINVALID, "browser proxies cannot carry credentials")
	}
	return u.Scheme + "://" + u.Host, nil
}

// extraHeaders flattens headers into rod's key, value list, leaving out
// User-Agent which is applied as an override.
func extraHeaders(headers map[string]string) []string {
	var out []string
	for k, v := range headers {
		if strings.EqualFold(k, "User-Agent") {
			continue
		}
		out = append(out, k, v)
	}
	return out
}

// fetchError keeps context errors intact and reports everything else as EFETCH.
func fetchError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return repocrawl.Errorf(repocrawl.EFETCH, "%v", err)
}
