package crawl_test

import (
	"testing"

	"github.com/fwojciec/repocrawl"
	"github.com/fwojciec/repocrawl/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com/very/long/path/to/documentation"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, ".../to/documentation", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns URL unchanged when exactly max length", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com"
		assert.Equal(t, url, crawl.TruncateURL(url, len(url)))
	})

	t.Run("returns empty string when maxLen is zero", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", 0))
	})

	t.Run("returns empty string when maxLen is negative", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		// When maxLen < 4, we can't fit "..." prefix, so return URL prefix
		assert.Equal(t, "htt", crawl.TruncateURL("https://example.com", 3))
		assert.Equal(t, "ht", crawl.TruncateURL("https://example.com", 2))
		assert.Equal(t, "h", crawl.TruncateURL("https://example.com", 1))
	})

	t.Run("handles short URL with small maxLen", func(t *testing.T) {
		t.Parallel()
		// URL shorter than maxLen should return unchanged
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
		assert.Equal(t, "a", crawl.TruncateURL("a", 2))
	})
}

func TestFormatLanguageStats(t *testing.T) {
	t.Parallel()

	t.Run("orders languages by share", func(t *testing.T) {
		t.Parallel()
		stats := repocrawl.LanguageStats{"Go": 20, "Python": 80}
		assert.Equal(t, "Python 80.0%, Go 20.0%", crawl.FormatLanguageStats(stats))
	})

	t.Run("breaks ties by name", func(t *testing.T) {
		t.Parallel()
		stats := repocrawl.LanguageStats{"Shell": 50, "C": 50}
		assert.Equal(t, "C 50.0%, Shell 50.0%", crawl.FormatLanguageStats(stats))
	})

	t.Run("returns empty string for no languages", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.FormatLanguageStats(nil))
	})
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	t.Run("formats simple result as its URL", func(t *testing.T) {
		t.Parallel()
		r := repocrawl.CrawlResult{URL: "https://github.com/a/b/wiki"}
		assert.Equal(t, "https://github.com/a/b/wiki", crawl.FormatResult(r))
	})

	t.Run("formats enriched result with owner and languages", func(t *testing.T) {
		t.Parallel()
		r := repocrawl.NewEnrichedResult(&repocrawl.EnrichedResult{
			URL:           "https://github.com/octocat/hello",
			Owner:         "octocat",
			LanguageStats: repocrawl.LanguageStats{"Python": 80, "Go": 20},
		})
		assert.Equal(t, "https://github.com/octocat/hello (octocat) Python 80.0%, Go 20.0%", crawl.FormatResult(r))
	})

	t.Run("omits languages when there are none", func(t *testing.T) {
		t.Parallel()
		r := repocrawl.NewEnrichedResult(&repocrawl.EnrichedResult{
			URL:           "https://github.com/octocat/empty",
			Owner:         "octocat",
			LanguageStats: repocrawl.LanguageStats{},
		})
		assert.Equal(t, "https://github.com/octocat/empty (octocat)", crawl.FormatResult(r))
	})
}
