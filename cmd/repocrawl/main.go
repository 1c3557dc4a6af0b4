package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/repocrawl"
	"github.com/fwojciec/repocrawl/crawl"
	rcgin "github.com/fwojciec/repocrawl/gin"
	"github.com/fwojciec/repocrawl/goquery"
	rchttp "github.com/fwojciec/repocrawl/http"
	rcprom "github.com/fwojciec/repocrawl/prometheus"
	"github.com/fwojciec/repocrawl/rod"
	rcslog "github.com/fwojciec/repocrawl/slog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv resolves configuration that kong does not bind as flags.
	Getenv func(string) string

	// Services for end-to-end testing. Nil values are wired from config.
	Fetcher     repocrawl.Fetcher
	ProxyLister repocrawl.ProxyLister
	Registry    *prometheus.Registry
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repocrawl"),
		kong.Description("Crawl GitHub search results through proxies"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repocrawl --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Config = cli.Config(m.Getenv)
	deps.Logger = newLogger(stderr, cli.Verbose)

	switch strings.Fields(kongCtx.Command())[0] {
	case "proxies":
		deps.ProxyLister = m.proxyLister(deps)

	case "crawl":
		fetcher := m.fetcher(deps, cli.Crawl.CrawlOptions)
		defer fetcher.Close()

		deps.Crawler = rcslog.NewLoggingCrawler(
			newCrawler(deps, cli.Crawl.CrawlOptions, fetcher, nil),
			deps.Logger,
		)

	case "serve":
		fetcher := m.fetcher(deps, cli.Serve.CrawlOptions)
		defer fetcher.Close()

		reg := m.Registry
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		metrics := rcprom.NewMetrics(reg)

		gin.SetMode(gin.ReleaseMode)
		server := rcgin.NewServer()
		server.Logger = deps.Logger
		server.Modes = deps.Config.Modes
		server.Metrics = metrics
		server.Gatherer = reg
		server.ProxyLister = m.proxyLister(deps)
		server.Crawler = rcslog.NewLoggingCrawler(
			rcprom.NewInstrumentedCrawler(newCrawler(deps, cli.Serve.CrawlOptions, fetcher, metrics), metrics),
			deps.Logger,
		)
		deps.Server = server
	}

	return kongCtx.Run(deps)
}

// fetcher returns the page fetcher for a crawl, wrapped with logging.
func (m *Main) fetcher(deps *Dependencies, opts CrawlOptions) repocrawl.Fetcher {
	var f repocrawl.Fetcher
	switch {
	case m.Fetcher != nil:
		f = m.Fetcher
	case opts.Browser:
		f = rod.NewFetcher(
			rod.WithHeaders(deps.Config.Headers),
			rod.WithFetchTimeout(opts.Timeout),
		)
	default:
		f = rchttp.NewFetcher(
			rchttp.WithHeaders(deps.Config.Headers),
			rchttp.WithTimeout(opts.Timeout),
		)
	}
	return rcslog.NewLoggingFetcher(f, deps.Logger)
}

func (m *Main) proxyLister(deps *Dependencies) repocrawl.ProxyLister {
	lister := m.ProxyLister
	if lister == nil {
		lister = rchttp.NewProxyListService(nil, deps.Config.ProxySourceURL, deps.Config.Headers, goquery.NewProxyListParser())
	}
	return rcslog.NewLoggingProxyLister(lister, deps.Logger)
}

// newCrawler wires the crawl engine from config and command options.
// metrics may be nil.
func newCrawler(deps *Dependencies, opts CrawlOptions, fetcher repocrawl.Fetcher, metrics *rcprom.Metrics) *crawl.Crawler {
	var enricher repocrawl.Enricher = &crawl.Enricher{
		Fetcher:     fetcher,
		Parser:      goquery.NewDetailParser(),
		RetryDelays: opts.RetryDelays(),
	}
	if metrics != nil {
		enricher = rcprom.NewInstrumentedEnricher(enricher, metrics)
	}

	policy := crawl.BestEffort
	if opts.FailFast {
		policy = crawl.FailFast
	}

	return &crawl.Crawler{
		BaseURL:       deps.Config.BaseURL,
		Modes:         deps.Config.Modes,
		Fetcher:       fetcher,
		Parser:        goquery.NewSearchParser(deps.Config.BaseURL),
		Enricher:      rcslog.NewLoggingEnricher(enricher, deps.Logger),
		Selector:      crawl.NewRandomSelector(),
		Concurrency:   opts.Concurrency,
		WorkerTimeout: opts.WorkerTimeout,
		Policy:        policy,
		RetryDelays:   opts.RetryDelays(),
		OnProgress: func(event crawl.ProgressEvent) {
			switch event.Type {
			case crawl.ProgressStarted:
				deps.Logger.Debug("enriching repositories", "total", event.Total)
			case crawl.ProgressCompleted:
				deps.Logger.Debug("enriched", "url", crawl.TruncateURL(event.URL, 60), "completed", event.Completed, "total", event.Total)
			}
		},
	}
}

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second
