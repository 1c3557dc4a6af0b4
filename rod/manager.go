package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// LaunchFunc starts a browser whose traffic goes through proxy (empty for a
// direct connection). kill stops the browser process and must be safe to call
// once the browser has been closed.
type LaunchFunc func(proxy string) (browser *rod.Browser, kill func(), err error)

// BrowserManager owns the headless Chrome bound to one proxy.
// Chrome's memory baseline keeps growing under load, so the browser is
// replaced after maxPages pages.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	proxy    string
	maxPages int
	launch   LaunchFunc

	mu       sync.Mutex
	browser  *rod.Browser
	kill     func()
	pages    int
	launches int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser serves before it is replaced.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithProxy routes all browser traffic through server, given in the
// scheme://host:port form returned by ProxyServer.
func WithProxy(server string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.proxy = server
	}
}

// WithLaunch replaces the function that starts Chrome.
func WithLaunch(fn LaunchFunc) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch = fn
	}
}

// NewBrowserManager launches the first browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		launch:   LaunchChrome,
	}
	for _, opt := range opts {
		opt(bm)
	}

	browser, kill, err := bm.launch(bm.proxy)
	if err != nil {
		return nil, err
	}
	bm.browser, bm.kill, bm.launches = browser, kill, 1
	return bm, nil
}

// Browser returns the current browser, replacing it first if it has served
// maxPages pages. A failed replacement keeps the old browser in service.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.pages >= bm.maxPages && !bm.closed {
		if browser, kill, err := bm.launch(bm.proxy); err == nil {
			shutdown(bm.browser, bm.kill)
			bm.browser, bm.kill = browser, kill
			bm.pages = 0
			bm.launches++
		}
	}
	return bm.browser
}

// PageDone counts one page served by the current browser.
func (bm *BrowserManager) PageDone() {
	bm.mu.Lock()
	bm.pages++
	bm.mu.Unlock()
}

// Launches returns how many browsers have been started, recycled ones included.
func (bm *BrowserManager) Launches() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.launches
}

// Proxy returns the proxy server the browser was launched with.
func (bm *BrowserManager) Proxy() string {
	return bm.proxy
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	err := shutdown(bm.browser, bm.kill)
	bm.browser, bm.kill = nil, nil
	return err
}

func shutdown(browser *rod.Browser, kill func()) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if kill != nil {
		kill()
	}
	return err
}

// LaunchChrome starts headless Chrome with flags that keep background pages
// from being throttled, routing traffic through proxy when it is set.
func LaunchChrome(proxy string) (*rod.Browser, func(), error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if proxy != "" {
		l = l.Proxy(proxy)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser for proxy %q: %w", proxy, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l.Kill, nil
}
