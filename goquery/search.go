// Package goquery implements the repocrawl page parsers on top of
// github.com/PuerkitoBio/goquery CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repocrawl"
)

var _ repocrawl.SearchParser = (*SearchParser)(nil)

// SearchSelectors locates result links on a search results page.
type SearchSelectors struct {
	// Container wraps the whole result list.
	Container string
	// Entry matches one result inside Container.
	Entry string
	// Anchor matches the link to the result's entity inside Entry.
	Anchor string
}

// DefaultSearchSelectors returns the selectors matching GitHub's search page markup.
func DefaultSearchSelectors() SearchSelectors {
	return SearchSelectors{
		Container: "div.Box-sc-g0xbh4-0.kXssRI",
		Entry:     "div.Box-sc-g0xbh4-0.bDcVHV",
		Anchor:    "a.Link__StyledLink-sc-14289xe-0.dheQRw",
	}
}

// SearchParser extracts result references from GitHub search pages.
type SearchParser struct {
	baseURL   string
	defaults  SearchSelectors
	overrides map[string]SearchSelectors
}

// SearchOption configures a SearchParser.
type SearchOption func(*SearchParser)

// WithSearchSelectors replaces the selectors used for every mode.
func WithSearchSelectors(s SearchSelectors) SearchOption {
	return func(p *SearchParser) {
		p.defaults = s
	}
}

// WithModeSelectors sets the selectors for a single mode.
func WithModeSelectors(mode repocrawl.Mode, s SearchSelectors) SearchOption {
	return func(p *SearchParser) {
		p.overrides[strings.ToLower(string(mode))] = s
	}
}

// NewSearchParser creates a SearchParser that resolves links against baseURL.
func NewSearchParser(baseURL string, opts ...SearchOption) *SearchParser {
	p := &SearchParser{
		baseURL:   strings.TrimRight(baseURL, "/"),
		defaults:  DefaultSearchSelectors(),
		overrides: make(map[string]SearchSelectors),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSearch returns one reference per result entry, in document order.
func (p *SearchParser) ParseSearch(html string, mode repocrawl.Mode) ([]repocrawl.SearchReference, error) {
	base, err := url.Parse(p.baseURL)
	if err != nil || base.Host == "" {
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "invalid base URL: %q", p.baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "failed to parse HTML: %v", err)
	}

	sel := p.selectors(mode)
	container := doc.Find(sel.Container).First()
	if container.Length() == 0 {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "search results container not found")
	}

	refs := make([]repocrawl.SearchReference, 0)
	var parseErr error
	container.Find(sel.Entry).EachWithBreak(func(i int, entry *goquery.Selection) bool {
		href, ok := entry.Find(sel.Anchor).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			parseErr = repocrawl.Errorf(repocrawl.EMALFORMED, "search result %d has no link", i)
			return false
		}
		resolved, err := resolveURL(base, p.baseURL, href)
		if err != nil {
			parseErr = err
			return false
		}
		refs = append(refs, repocrawl.SearchReference{URL: resolved})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return refs, nil
}

func (p *SearchParser) selectors(mode repocrawl.Mode) SearchSelectors {
	if s, ok := p.overrides[strings.ToLower(string(mode))]; ok {
		return s
	}
	return p.defaults
}

// resolveURL prefixes relative hrefs with the base URL.
// Absolute hrefs are accepted only when they are rooted at the base URL.
func resolveURL(base *url.URL, baseURL string, href string) (string, error) {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return "", repocrawl.Errorf(repocrawl.EMALFORMED, "invalid result link %q: %v", href, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host || !strings.HasPrefix(resolved.String(), baseURL) {
			return "", repocrawl.Errorf(repocrawl.EMALFORMED, "result link %q is outside %s", href, baseURL)
		}
		return resolved.String(), nil
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href, nil
}
