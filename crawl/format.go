package crawl

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fwojciec/repocrawl"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatLanguageStats renders stats as "Go 80.0%, Python 20.0%", largest
// share first and ties broken by name.
func FormatLanguageStats(stats repocrawl.LanguageStats) string {
	names := slices.Collect(maps.Keys(stats))
	slices.SortFunc(names, func(a, b string) int {
		if stats[a] != stats[b] {
			if stats[a] > stats[b] {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", name, stats[name]))
	}
	return strings.Join(parts, ", ")
}

// FormatResult renders a single crawl result as one line of text.
func FormatResult(r repocrawl.CrawlResult) string {
	enriched, ok := r.Enriched()
	if !ok {
		return r.URL
	}
	if len(enriched.LanguageStats) == 0 {
		return fmt.Sprintf("%s (%s)", enriched.URL, enriched.Owner)
	}
	return fmt.Sprintf("%s (%s) %s", enriched.URL, enriched.Owner, FormatLanguageStats(enriched.LanguageStats))
}
