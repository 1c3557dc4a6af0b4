package goquery

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repocrawl"
)

var _ repocrawl.DetailParser = (*DetailParser)(nil)

// DetailSelectors locates the owner and language breakdown on a repository page.
type DetailSelectors struct {
	// Owner is the anchor holding the owner's display name.
	Owner string
	// Panel is the repository metadata sidebar.
	Panel string
	// Row matches the info rows of Panel; the languages are in the last one.
	Row string
	// Language matches one language entry inside the last Row.
	Language string
}

// DefaultDetailSelectors returns the selectors matching GitHub's repository page markup.
func DefaultDetailSelectors() DetailSelectors {
	return DetailSelectors{
		Owner:    "a.url.fn",
		Panel:    "div.BorderGrid.about-margin",
		Row:      "div.BorderGrid-row",
		Language: "a.d-inline-flex.flex-items-center.flex-nowrap.Link--secondary.no-underline.text-small.mr-3",
	}
}

// DetailParser extracts owner and language statistics from repository pages.
type DetailParser struct {
	selectors DetailSelectors
}

// NewDetailParser creates a DetailParser using the default selectors.
func NewDetailParser() *DetailParser {
	return &DetailParser{selectors: DefaultDetailSelectors()}
}

// NewDetailParserWithSelectors creates a DetailParser using custom selectors.
func NewDetailParserWithSelectors(s DetailSelectors) *DetailParser {
	return &DetailParser{selectors: s}
}

// ParseDetail extracts the repository owner and its language breakdown.
func (p *DetailParser) ParseDetail(html string) (*repocrawl.RepositoryDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "failed to parse HTML: %v", err)
	}

	owner := doc.Find(p.selectors.Owner).First()
	if owner.Length() == 0 {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "repository owner not found")
	}

	panel := doc.Find(p.selectors.Panel).First()
	if panel.Length() == 0 {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "repository metadata panel not found")
	}
	rows := panel.Find(p.selectors.Row)
	if rows.Length() == 0 {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "repository metadata panel has no rows")
	}

	stats := make(repocrawl.LanguageStats)
	var parseErr error
	rows.Last().Find(p.selectors.Language).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		spans := a.Find("span")
		if spans.Length() < 2 {
			parseErr = repocrawl.Errorf(repocrawl.EMALFORMED, "language entry %q lacks a percentage", strings.TrimSpace(a.Text()))
			return false
		}
		language := strings.TrimSpace(spans.Eq(0).Text())
		if language == "" {
			parseErr = repocrawl.Errorf(repocrawl.EMALFORMED, "language entry has no name")
			return false
		}
		share, err := parsePercent(spans.Eq(1).Text())
		if err != nil {
			parseErr = err
			return false
		}
		stats[language] = share
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return &repocrawl.RepositoryDetail{
		Owner:         cleanOwner(owner.Text()),
		LanguageStats: stats,
	}, nil
}

func cleanOwner(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "")
}

// parsePercent parses text such as "80.5%" into 80.5.
func parsePercent(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, repocrawl.Errorf(repocrawl.EMALFORMED, "invalid language percentage %q", strings.TrimSpace(s))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, repocrawl.Errorf(repocrawl.EMALFORMED, "invalid language percentage %q", strings.TrimSpace(s))
	}
	return v, nil
}
