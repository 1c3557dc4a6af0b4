package gin

import (
	"net/http"

	"github.com/fwojciec/repocrawl"
	"github.com/gin-gonic/gin"
)

// handleCrawl runs one crawl for the JSON request body.
func (s *Server) handleCrawl(c *gin.Context) {
	var req repocrawl.CrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, repocrawl.Errorf(repocrawl.EINVALID, "invalid request body"))
		return
	}
	if err := req.Validate(s.modes()); err != nil {
		s.writeError(c, err)
		return
	}

	results, err := s.Crawler.Crawl(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if results == nil {
		results = []repocrawl.CrawlResult{}
	}
	c.JSON(http.StatusOK, results)
}

// handleListProxies returns the proxies currently published by the source.
func (s *Server) handleListProxies(c *gin.Context) {
	proxies, err := s.ProxyLister.ListProxies(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if proxies == nil {
		proxies = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"proxies": proxies})
}

func (s *Server) modes() []repocrawl.Mode {
	if len(s.Modes) == 0 {
		return repocrawl.DefaultModes()
	}
	return s.Modes
}
