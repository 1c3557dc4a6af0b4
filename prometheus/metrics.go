// Package prometheus provides Prometheus instrumentation for repocrawl services.
package prometheus

import (
	"context"
	"strconv"
	"time"

	"github.com/fwojciec/repocrawl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "repocrawl"

// Outcome label values.
const (
	OutcomeSuccess = "success"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	crawlsTotal      *prometheus.CounterVec
	crawlDuration    *prometheus.HistogramVec
	enrichmentsTotal *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		crawlsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "crawls_total",
				Help:      "Total number of crawls by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		crawlDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "crawl_duration_seconds",
				Help:      "Crawl duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"mode"},
		),
		enrichmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "enrichments_total",
				Help:      "Total number of repository enrichments by outcome",
			},
			[]string{"outcome"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordCrawl counts one crawl and observes its duration.
func (m *Metrics) RecordCrawl(mode repocrawl.Mode, err error, d time.Duration) {
	m.crawlsTotal.WithLabelValues(string(mode), outcome(err)).Inc()
	m.crawlDuration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

// RecordEnrichment counts one enrichment worker result.
func (m *Metrics) RecordEnrichment(err error) {
	m.enrichmentsTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordHTTPRequest counts one API request and observes its duration.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// outcome maps err to a label value: "success" or the error code.
func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return repocrawl.ErrorCode(err)
}

// Ensure the decorators implement their interfaces.
var (
	_ repocrawl.Crawler  = (*InstrumentedCrawler)(nil)
	_ repocrawl.Enricher = (*InstrumentedEnricher)(nil)
)

// InstrumentedCrawler records crawl counts and durations.
type InstrumentedCrawler struct {
	next    repocrawl.Crawler
	metrics *Metrics
}

// NewInstrumentedCrawler creates a new InstrumentedCrawler.
func NewInstrumentedCrawler(next repocrawl.Crawler, m *Metrics) *InstrumentedCrawler {
	return &InstrumentedCrawler{next: next, metrics: m}
}

// Crawl delegates to the wrapped crawler and records the outcome.
func (c *InstrumentedCrawler) Crawl(ctx context.Context, req repocrawl.CrawlRequest) (results []repocrawl.CrawlResult, err error) {
	defer func(begin time.Time) {
		c.metrics.RecordCrawl(req.Mode, err, time.Since(begin))
	}(time.Now())
	return c.next.Crawl(ctx, req)
}

// InstrumentedEnricher records enrichment outcomes.
type InstrumentedEnricher struct {
	next    repocrawl.Enricher
	metrics *Metrics
}

// NewInstrumentedEnricher creates a new InstrumentedEnricher.
func NewInstrumentedEnricher(next repocrawl.Enricher, m *Metrics) *InstrumentedEnricher {
	return &InstrumentedEnricher{next: next, metrics: m}
}

// Enrich delegates to the wrapped enricher and records the outcome.
func (e *InstrumentedEnricher) Enrich(ctx context.Context, ref repocrawl.SearchReference, proxy string) (*repocrawl.EnrichedResult, error) {
	result, err := e.next.Enrich(ctx, ref, proxy)
	e.metrics.RecordEnrichment(err)
	return result, err
}
