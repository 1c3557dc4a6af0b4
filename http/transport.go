package http

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/repocrawl"
	"golang.org/x/net/proxy"
)

// ParseProxy parses a proxy endpoint. Endpoints without a scheme,
// such as "10.0.0.1:8080", are treated as HTTP proxies.
func ParseProxy(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "proxy cannot be empty")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "invalid proxy %q: %v", endpoint, err)
	}
	if u.Host == "" {
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "invalid proxy %q: missing host", endpoint)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, repocrawl.Errorf(repocrawl.EINVALID, "unsupported proxy scheme %q", u.Scheme)
	}
	return u, nil
}

// NewProxyTransport returns a transport that sends every request through endpoint.
// HTTP(S) proxies use CONNECT tunnelling; SOCKS5 proxies are dialled with
// golang.org/x/net/proxy.
func NewProxyTransport(endpoint string) (*http.Transport, error) {
	u, err := ParseProxy(endpoint)
	if err != nil {
		return nil, err
	}

	t := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	switch u.Scheme {
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, repocrawl.Errorf(repocrawl.EINVALID, "invalid proxy %q: %v", endpoint, err)
		}
		t.DialContext = contextDialer(dialer)
	default:
		t.Proxy = http.ProxyURL(u)
	}

	return t, nil
}

func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}
