package goquery

import (
	"net"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repocrawl"
)

var _ repocrawl.ProxyListParser = (*ProxyListParser)(nil)

// DefaultProxyTableSelector matches the proxy table on free-proxy-list.net.
const DefaultProxyTableSelector = "table.table.table-striped.table-bordered"

// ProxyListParser reads proxy addresses out of an HTML table whose first
// column is the IP address and second column the port.
type ProxyListParser struct {
	table string
}

// NewProxyListParser creates a ProxyListParser for the default table selector.
func NewProxyListParser() *ProxyListParser {
	return &ProxyListParser{table: DefaultProxyTableSelector}
}

// ParseProxyList returns "ip:port" for each data row of the table.
// Rows lacking a port yield the bare address.
func (p *ProxyListParser) ParseProxyList(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "failed to parse HTML: %v", err)
	}

	table := doc.Find(p.table).First()
	if table.Length() == 0 {
		return nil, repocrawl.Errorf(repocrawl.EMALFORMED, "proxy table not found")
	}

	proxies := make([]string, 0)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		host := strings.TrimSpace(cells.Eq(0).Text())
		if host == "" {
			return
		}
		if cells.Length() > 1 {
			if port := strings.TrimSpace(cells.Eq(1).Text()); port != "" {
				host = net.JoinHostPort(host, port)
			}
		}
		proxies = append(proxies, host)
	})

	return proxies, nil
}
