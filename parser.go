package repocrawl

// SearchParser extracts result references from a search results page.
type SearchParser interface {
	// ParseSearch returns one reference per result entry, in document order.
	// Returns EMALFORMED if the results container or an entry's anchor is missing.
	ParseSearch(html string, mode Mode) ([]SearchReference, error)
}

// DetailParser extracts the owner and language breakdown from a repository page.
type DetailParser interface {
	// ParseDetail returns EMALFORMED if the owner anchor or metadata panel is missing.
	ParseDetail(html string) (*RepositoryDetail, error)
}

// ProxyListParser extracts proxy addresses from a proxy listing page.
type ProxyListParser interface {
	ParseProxyList(html string) ([]string, error)
}
