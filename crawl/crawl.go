// Package crawl provides search crawling orchestration.
// It coordinates proxy selection, search page fetching and parsing, and the
// concurrent enrichment of repository results.
package crawl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/repocrawl"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of enrichment workers run at once.
const DefaultConcurrency = 10

// Ensure Crawler implements repocrawl.Crawler at compile time.
var _ repocrawl.Crawler = (*Crawler)(nil)

// Policy decides what happens when an enrichment worker fails.
type Policy int

const (
	// BestEffort drops failed workers and returns the results that succeeded.
	BestEffort Policy = iota
	// FailFast cancels the remaining workers and fails the whole crawl.
	FailFast
)

// String returns the flag spelling of the policy.
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	default:
		return "best-effort"
	}
}

// Crawler orchestrates one search crawl per call.
// A Crawler holds no per-call state and is safe for concurrent use.
type Crawler struct {
	BaseURL  string
	Modes    []repocrawl.Mode
	Fetcher  repocrawl.Fetcher
	Parser   repocrawl.SearchParser
	Enricher repocrawl.Enricher
	Selector repocrawl.ProxySelector

	Concurrency   int
	WorkerTimeout time.Duration
	Policy        Policy
	RetryDelays   []time.Duration

	// OnProgress, if set, receives enrichment events. It is only ever
	// called from the goroutine running Crawl.
	OnProgress ProgressFunc
}

// ProgressEvent reports progress during repository enrichment.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// enrichResult holds the outcome of enriching a single reference.
type enrichResult struct {
	position int
	url      string
	result   *repocrawl.EnrichedResult
	err      error
}

// SearchURL builds the search page address for keywords in mode.
// Keywords are joined with spaces, which encode as "+".
func SearchURL(baseURL string, keywords []string, mode repocrawl.Mode) string {
	q := url.Values{}
	q.Set("q", strings.Join(keywords, " "))
	q.Set("type", string(mode))
	return strings.TrimSuffix(baseURL, "/") + "/search?" + q.Encode()
}

// Crawl selects one proxy from the request's pool, validates req and runs the search.
// Repository searches are enriched concurrently through the same proxy, which is
// leased from the fetcher until Crawl returns.
func (c *Crawler) Crawl(ctx context.Context, req repocrawl.CrawlRequest) ([]repocrawl.CrawlResult, error) {
	// An empty pool is reported as ENOPROXY whatever else is wrong with req.
	proxy, err := c.selector().Select(req.Proxies)
	if err != nil {
		return nil, err
	}

	modes := c.Modes
	if len(modes) == 0 {
		modes = repocrawl.DefaultModes()
	}
	if err := req.Validate(modes); err != nil {
		return nil, err
	}
	mode, _ := repocrawl.LookupMode(modes, req.Mode)

	release := c.lease(proxy)
	defer release()

	base := c.baseURL()
	fetch := func(ctx context.Context, url string) (string, error) {
		return c.Fetcher.Fetch(ctx, url, proxy)
	}
	html, err := FetchWithRetry(ctx, SearchURL(base, req.Keywords, mode), fetch, c.RetryDelays)
	if err != nil {
		if ctx.Err() != nil || repocrawl.ErrorCode(err) == repocrawl.EINVALID {
			return nil, err
		}
		return nil, repocrawl.Errorf(repocrawl.EFETCH, "error fetching data from %s: %s", base, errorCause(err))
	}

	refs, err := c.Parser.ParseSearch(html, mode)
	if err != nil {
		return nil, err
	}

	if !mode.Enriches() {
		results := make([]repocrawl.CrawlResult, 0, len(refs))
		for _, ref := range refs {
			results = append(results, repocrawl.NewReferenceResult(ref))
		}
		return results, nil
	}

	return c.enrich(ctx, refs, proxy)
}

// enrich runs one worker per reference and collects their results.
// The calling goroutine is the only reader of the result channel, so the
// collected slice needs no locking.
func (c *Crawler) enrich(ctx context.Context, refs []repocrawl.SearchReference, proxy string) ([]repocrawl.CrawlResult, error) {
	total := len(refs)
	resultCh := make(chan enrichResult, total)

	c.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())

	var waitErr error
	go func() {
		for i, ref := range refs {
			g.Go(func() error {
				res := c.enrichOne(gctx, i, ref, proxy)
				resultCh <- res
				if res.err != nil && c.Policy == FailFast {
					return res.err
				}
				return nil
			})
		}
		waitErr = g.Wait()
		close(resultCh)
	}()

	enriched := make([]*repocrawl.EnrichedResult, total)
	var completed int
	for res := range resultCh {
		completed++
		if res.err != nil {
			c.progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: completed,
				Total:     total,
				URL:       res.url,
				Error:     res.err,
			})
			continue
		}
		enriched[res.position] = res.result
		c.progress(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			URL:       res.url,
		})
	}

	c.progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})

	if waitErr != nil {
		return nil, waitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]repocrawl.CrawlResult, 0, total)
	for _, r := range enriched {
		if r == nil {
			continue
		}
		results = append(results, repocrawl.NewEnrichedResult(r))
	}
	return results, nil
}

// enrichOne enriches a single reference, applying the worker deadline.
func (c *Crawler) enrichOne(ctx context.Context, position int, ref repocrawl.SearchReference, proxy string) enrichResult {
	res := enrichResult{position: position, url: ref.URL}

	if c.WorkerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.WorkerTimeout)
		defer cancel()
	}

	res.result, res.err = c.Enricher.Enrich(ctx, ref, proxy)
	return res
}

func (c *Crawler) progress(event ProgressEvent) {
	if c.OnProgress != nil {
		c.OnProgress(event)
	}
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Crawler) baseURL() string {
	if c.BaseURL == "" {
		return repocrawl.DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

// lease holds the fetcher's per-proxy resources for the rest of the crawl.
func (c *Crawler) lease(proxy string) func() {
	if l, ok := c.Fetcher.(repocrawl.ProxyLeaser); ok {
		return l.Lease(proxy)
	}
	return func() {}
}

func (c *Crawler) selector() repocrawl.ProxySelector {
	if c.Selector == nil {
		return NewRandomSelector()
	}
	return c.Selector
}

// errorCause returns the human-readable message of err without its code.
func errorCause(err error) string {
	var e *repocrawl.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
