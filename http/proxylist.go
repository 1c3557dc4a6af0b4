package http

import (
	"context"
	"io"
	"maps"
	"net/http"

	"github.com/fwojciec/repocrawl"
)

// Ensure ProxyListService implements repocrawl.ProxyLister.
var _ repocrawl.ProxyLister = (*ProxyListService)(nil)

// ProxyListService downloads a proxy listing page and parses it.
// The listing is fetched directly, without a proxy.
type ProxyListService struct {
	client    *http.Client
	sourceURL string
	headers   map[string]string
	parser    repocrawl.ProxyListParser
}

// NewProxyListService creates a new ProxyListService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewProxyListService(client *http.Client, sourceURL string, headers map[string]string, parser repocrawl.ProxyListParser) *ProxyListService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyListService{
		client:    client,
		sourceURL: sourceURL,
		headers:   maps.Clone(headers),
		parser:    parser,
	}
}

// ListProxies returns the proxy addresses currently published by the source.
func (s *ProxyListService) ListProxies(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "invalid proxy source URL %q: %v", s.sourceURL, err)
	}
	setHeaders(req, s.headers)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EUNAVAILABLE, "Unable to connect to %s: %v", s.sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, repocrawl.Errorf(repocrawl.EFETCH, "Error fetching proxies: HTTP %d for %s", resp.StatusCode, s.sourceURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EFETCH, "Error fetching proxies: %v", err)
	}

	return s.parser.ParseProxyList(string(body))
}
