package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/repocrawl"
	rcgin "github.com/fwojciec/repocrawl/gin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Config      repocrawl.Config
	Crawler     repocrawl.Crawler
	ProxyLister repocrawl.ProxyLister
	Server      *rcgin.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	GitHubURL  string `name:"github-url" env:"GITHUB_URL" help:"Base URL of the site to search (default https://github.com)"`
	ProxyURL   string `name:"proxy-url" env:"PROXY_URL" help:"Page listing public proxies (default https://free-proxy-list.net/)"`
	Headers    string `env:"HEADERS" help:"JSON object of headers sent with every request"`
	ValidTypes string `name:"valid-types" env:"VALID_TYPES" help:"Comma-separated accepted search types (default repositories,issues,wikis)"`

	Crawl   CrawlCmd   `cmd:"" help:"Search GitHub through a proxy and print the results"`
	Proxies ProxiesCmd `cmd:"" help:"List proxies published by the proxy source"`
	Serve   ServeCmd   `cmd:"" help:"Serve the crawler over HTTP"`
}

// Config resolves the global flags into a repocrawl.Config. Values not set
// by flag or environment fall back to getenv and then to defaults.
func (c *CLI) Config(getenv func(string) string) repocrawl.Config {
	flags := map[string]string{
		repocrawl.EnvBaseURL:        c.GitHubURL,
		repocrawl.EnvProxySourceURL: c.ProxyURL,
		repocrawl.EnvHeaders:        c.Headers,
		repocrawl.EnvValidTypes:     c.ValidTypes,
	}
	return repocrawl.LoadConfig(func(key string) string {
		if v := flags[key]; v != "" {
			return v
		}
		if getenv == nil {
			return ""
		}
		return getenv(key)
	})
}

// CrawlOptions tune the crawl engine. They are shared by crawl and serve.
type CrawlOptions struct {
	Browser       bool          `help:"Render pages in headless Chrome"`
	Concurrency   int           `short:"c" default:"10" help:"Concurrent enrichment limit"`
	Timeout       time.Duration `default:"30s" help:"Timeout for a single page fetch"`
	WorkerTimeout time.Duration `name:"worker-timeout" help:"Deadline for one repository enrichment (0 means none)"`
	FailFast      bool          `name:"fail-fast" help:"Fail the crawl when any repository cannot be enriched"`
	Retries       int           `help:"Retry failed fetches through the same proxy"`
}

// RetryDelays returns exponential backoff delays starting at one second,
// one per retry.
func (o CrawlOptions) RetryDelays() []time.Duration {
	if o.Retries <= 0 {
		return nil
	}
	delays := make([]time.Duration, o.Retries)
	for i := range delays {
		delays[i] = time.Second << i
	}
	return delays
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Keywords []string `arg:"" help:"Search keywords"`
	Proxy    []string `short:"p" help:"Proxy endpoint, host:port or scheme://host:port (repeatable)"`
	Type     string   `short:"t" default:"repositories" help:"Search type"`
	JSON     bool     `name:"json" help:"Print results as JSON"`

	CrawlOptions `embed:""`
}

// ProxiesCmd is the "proxies" subcommand.
type ProxiesCmd struct {
	JSON bool `name:"json" help:"Print proxies as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":5000" help:"Address to listen on"`

	CrawlOptions `embed:""`
}
