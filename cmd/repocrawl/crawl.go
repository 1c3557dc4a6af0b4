package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/repocrawl"
	"github.com/fwojciec/repocrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	results, err := deps.Crawler.Crawl(deps.Ctx, repocrawl.CrawlRequest{
		Keywords: c.Keywords,
		Proxies:  c.Proxy,
		Mode:     repocrawl.Mode(c.Type),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repocrawl.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []repocrawl.CrawlResult{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintln(deps.Stdout, crawl.FormatResult(r))
	}
	return nil
}
