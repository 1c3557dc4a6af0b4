package repocrawl

import (
	"encoding/json"
	"maps"
	"net/url"
	"strings"
)

// Default configuration values.
const (
	DefaultBaseURL        = "https://github.com"
	DefaultProxySourceURL = "https://free-proxy-list.net/"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
)

// Environment variables read by LoadConfig.
const (
	EnvBaseURL        = "GITHUB_URL"
	EnvProxySourceURL = "PROXY_URL"
	EnvHeaders        = "HEADERS"
	EnvValidTypes     = "VALID_TYPES"
)

// Config holds the settings shared by the crawler, the fetchers and the
// proxy lister. It is built once at startup and passed to constructors.
type Config struct {
	// BaseURL is the site being crawled. Result URLs are rooted here.
	BaseURL string

	// ProxySourceURL is the page listing public proxies.
	ProxySourceURL string

	// Headers are sent with every outbound request. A non-nil empty map
	// sends none.
	Headers map[string]string

	// Modes lists the accepted search modes.
	Modes []Mode
}

// DefaultHeaders returns the request headers used when none are configured.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": DefaultUserAgent,
		"Accept":     "text/html",
	}
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ProxySourceURL: DefaultProxySourceURL,
		Headers:        DefaultHeaders(),
		Modes:          DefaultModes(),
	}
}

// LoadConfig builds a Config from environment variables read through getenv.
// Unset or malformed values fall back to their defaults.
func LoadConfig(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if v := getenv(EnvBaseURL); isAbsoluteURL(v) {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv(EnvProxySourceURL); isAbsoluteURL(v) {
		cfg.ProxySourceURL = v
	}
	if v := getenv(EnvHeaders); v != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(v), &headers); err == nil && headers != nil {
			cfg.Headers = headers
		}
	}
	if modes := ParseModes(getenv(EnvValidTypes)); len(modes) > 0 {
		cfg.Modes = modes
	}
	return cfg
}

// Normalize fills unset or malformed fields with their defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if isAbsoluteURL(c.BaseURL) {
		def.BaseURL = strings.TrimRight(c.BaseURL, "/")
	}
	if isAbsoluteURL(c.ProxySourceURL) {
		def.ProxySourceURL = c.ProxySourceURL
	}
	if c.Headers != nil {
		def.Headers = maps.Clone(c.Headers)
	}
	if len(c.Modes) > 0 {
		def.Modes = c.Modes
	}
	return def
}

func isAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
