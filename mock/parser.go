package mock

import "github.com/fwojciec/repocrawl"

var (
	_ repocrawl.SearchParser    = (*SearchParser)(nil)
	_ repocrawl.DetailParser    = (*DetailParser)(nil)
	_ repocrawl.ProxyListParser = (*ProxyListParser)(nil)
)

// SearchParser is a mock implementation of repocrawl.SearchParser.
type SearchParser struct {
	ParseSearchFn func(html string, mode repocrawl.Mode) ([]repocrawl.SearchReference, error)
}

func (p *SearchParser) ParseSearch(html string, mode repocrawl.Mode) ([]repocrawl.SearchReference, error) {
	return p.ParseSearchFn(html, mode)
}

// DetailParser is a mock implementation of repocrawl.DetailParser.
type DetailParser struct {
	ParseDetailFn func(html string) (*repocrawl.RepositoryDetail, error)
}

func (p *DetailParser) ParseDetail(html string) (*repocrawl.RepositoryDetail, error) {
	return p.ParseDetailFn(html)
}

// ProxyListParser is a mock implementation of repocrawl.ProxyListParser.
type ProxyListParser struct {
	ParseProxyListFn func(html string) ([]string, error)
}

func (p *ProxyListParser) ParseProxyList(html string) ([]string, error) {
	return p.ParseProxyListFn(html)
}
