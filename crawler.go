package repocrawl

import "context"

// CrawlRequest describes one crawl invocation.
type CrawlRequest struct {
	Keywords []string `json:"keywords"`
	Proxies  []string `json:"proxies"`
	Mode     Mode     `json:"type"`
}

// Validate returns an EINVALID error if the request violates the invocation
// contract. modes lists the accepted search modes.
func (r *CrawlRequest) Validate(modes []Mode) error {
	if len(r.Keywords) == 0 {
		return Errorf(EINVALID, "keywords cannot be empty")
	}
	for _, kw := range r.Keywords {
		if kw == "" {
			return Errorf(EINVALID, "keyword cannot be empty")
		}
	}
	if len(r.Proxies) == 0 {
		return Errorf(EINVALID, "proxies cannot be empty")
	}
	for _, p := range r.Proxies {
		if p == "" {
			return Errorf(EINVALID, "proxy cannot be empty")
		}
	}
	if r.Mode == "" {
		return Errorf(EINVALID, "type cannot be empty")
	}
	if _, ok := LookupMode(modes, r.Mode); !ok {
		return Errorf(EINVALID, "Unknown type: %s", r.Mode)
	}
	return nil
}

// Crawler runs searches and returns their results.
type Crawler interface {
	// Crawl searches for the request's keywords in the request's mode.
	// Callers receive either the complete result collection or a single error.
	Crawl(ctx context.Context, req CrawlRequest) ([]CrawlResult, error)
}

// Enricher fetches a repository page and extracts its detail.
type Enricher interface {
	Enrich(ctx context.Context, ref SearchReference, proxy string) (*EnrichedResult, error)
}
