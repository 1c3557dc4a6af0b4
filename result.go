package repocrawl

// SearchReference points at one entity found on a search results page.
type SearchReference struct {
	URL string `json:"url"`
}

// LanguageStats maps a language name to its share of the repository, in percent.
type LanguageStats map[string]float64

// RepositoryDetail holds the fields extracted from a repository page.
type RepositoryDetail struct {
	Owner         string
	LanguageStats LanguageStats
}

// EnrichedResult is a repository reference together with its detail.
type EnrichedResult struct {
	URL           string
	Owner         string
	LanguageStats LanguageStats
}

// RepositoryInfo is the enrichment payload of a CrawlResult.
type RepositoryInfo struct {
	Owner         string        `json:"owner"`
	LanguageStats LanguageStats `json:"language_stats"`
}

// CrawlResult is a single item returned by a crawl.
// Extra is nil for modes that are not enriched.
type CrawlResult struct {
	URL   string          `json:"url"`
	Extra *RepositoryInfo `json:"extra,omitempty"`
}

// NewReferenceResult returns the result for an unenriched reference.
func NewReferenceResult(ref SearchReference) CrawlResult {
	return CrawlResult{URL: ref.URL}
}

// NewEnrichedResult returns the result for an enriched repository.
func NewEnrichedResult(r *EnrichedResult) CrawlResult {
	return CrawlResult{
		URL: r.URL,
		Extra: &RepositoryInfo{
			Owner:         r.Owner,
			LanguageStats: r.LanguageStats,
		},
	}
}

// Enriched returns the enriched form of the result, if it has one.
func (r CrawlResult) Enriched() (*EnrichedResult, bool) {
	if r.Extra == nil {
		return nil, false
	}
	return &EnrichedResult{
		URL:           r.URL,
		Owner:         r.Extra.Owner,
		LanguageStats: r.Extra.LanguageStats,
	}, true
}
