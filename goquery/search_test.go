package goquery_test

import (
	"testing"

	"github.com/fwojciec/repocrawl"
	"github.com/fwojciec/repocrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<!DOCTYPE html>
<html>
<body>
<div class="Box-sc-g0xbh4-0 kXssRI">
	<div class="Box-sc-g0xbh4-0 bDcVHV">
		<a class="Link__StyledLink-sc-14289xe-0 dheQRw" href="/user/repo">user/repo</a>
	</div>
	<div class="Box-sc-g0xbh4-0 bDcVHV">
		<a class="Link__StyledLink-sc-14289xe-0 dheQRw" href="/other/project">other/project</a>
	</div>
</div>
</body>
</html>`

func TestSearchParser_ParseSearch(t *testing.T) {
	t.Parallel()

	t.Run("resolves a relative result link against the base URL", func(t *testing.T) {
		t.Parallel()

		html := `<div class="Box-sc-g0xbh4-0 kXssRI">
	<div class="Box-sc-g0xbh4-0 bDcVHV">
		<a class="Link__StyledLink-sc-14289xe-0 dheQRw" href="/user/repo"></a>
	</div>
</div>`

		p := goquery.NewSearchParser("https://github.com")
		refs, err := p.ParseSearch(html, repocrawl.ModeWikis)

		require.NoError(t, err)
		assert.Equal(t, []repocrawl.SearchReference{{URL: "https://github.com/user/repo"}}, refs)
	})

	t.Run("preserves document order", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSearchParser("https://github.com/")
		refs, err := p.ParseSearch(searchPage, repocrawl.ModeRepositories)

		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "https://github.com/user/repo", refs[0].URL)
		assert.Equal(t, "https://github.com/other/project", refs[1].URL)
	})

	t.Run("keeps the base path when prefixing", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSearchParser("http://mirror.local/gh")
		refs, err := p.ParseSearch(searchPage, repocrawl.ModeIssues)

		require.NoError(t, err)
		assert.Equal(t, "http://mirror.local/gh/user/repo", refs[0].URL)
	})

	t.Run("accepts absolute links on the same site", func(t *testing.T) {
		t.Parallel()

		html := `<div class="Box-sc-g0xbh4-0 kXssRI">
	<div class="Box-sc-g0xbh4-0 bDcVHV">
		<a class="Link__StyledLink-sc-14289xe-0 dheQRw" href="https://github.com/user/repo"></a>
	</div>
</div>`

		p := goquery.NewSearchParser("https://github.com")
		refs, err := p.ParseSearch(html, repocrawl.ModeRepositories)

		require.NoError(t, err)
		assert.Equal(t, "https://github.com/user/repo", refs[0].URL)
	})

	t.Run("rejects absolute links to other sites", func(t *testing.T) {
		t.Parallel()

		html := `<div class="Box-sc-g0xbh4-0 kXssRI">
	<div class="Box-sc-g0xbh4-0 bDcVHV">
		<a class="Link__StyledLink-sc-14289xe-0 dheQRw" href="https://evil.example/user/repo"></a>
	</div>
</div>`

		p := goquery.NewSearchParser("https://github.com")
		_, err := p.ParseSearch(html, repocrawl.ModeRepositories)

		assert.Equal(t, repocrawl.EMALFORMED, repocrawl.ErrorCode(err))
	})

	t.Run("returns empty slice for a container without entries", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSearchParser("https://github.com")
		refs, err := p.ParseSearch(`<div class="Box-sc-g0xbh4-0 kXssRI"></div>`, repocrawl.ModeIssues)

		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("fails when the results container is missing", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSearchParser("https://github.com")
		_, err := p.ParseSearch(`<html><body><p>Rate limited</p></body></html>`, repocrawl.ModeIssues)

		require.Error(t, err)
		assert.Equal(t, repocrawl.EMALFORMED, repocrawl.ErrorCode(err))
		assert.Contains(t, repocrawl.ErrorMessage(err), "container")
	})

	t.Run("fails when an entry has no anchor", func(t *testing.T) {
		t.Parallel()

		html := `<div class="Box-sc-g0xbh4-0 kXssRI">
	<div class="Box-sc-g0xbh4-0 bDcVHV"><span>no link</span></div>
</div>`

		p := goquery.NewSearchParser("https://github.com")
		_, err := p.ParseSearch(html, repocrawl.ModeIssues)

		assert.Equal(t, repocrawl.EMALFORMED, repocrawl.ErrorCode(err))
	})

	t.Run("uses mode specific selectors", func(t *testing.T) {
		t.Parallel()

		html := `<ul class="results"><li><a class="hit" href="/o/r/issues/1">#1</a></li></ul>`

		p := goquery.NewSearchParser("https://github.com",
			goquery.WithModeSelectors(repocrawl.ModeIssues, goquery.SearchSelectors{
				Container: "ul.results",
				Entry:     "li",
				Anchor:    "a.hit",
			}),
		)
		refs, err := p.ParseSearch(html, "Issues")

		require.NoError(t, err)
		assert.Equal(t, "https://github.com/o/r/issues/1", refs[0].URL)

		_, err = p.ParseSearch(html, repocrawl.ModeWikis)
		assert.Equal(t, repocrawl.EMALFORMED, repocrawl.ErrorCode(err))
	})

	t.Run("returns EINVALID for a bad base URL", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSearchParser("not-a-url")
		_, err := p.ParseSearch(searchPage, repocrawl.ModeIssues)

		assert.Equal(t, repocrawl.EINVALID, repocrawl.ErrorCode(err))
	})
}
