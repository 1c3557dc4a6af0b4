package gin

import (
	"net/http"

	"github.com/fwojciec/repocrawl"
	"github.com/gin-gonic/gin"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	repocrawl.EINVALID:     http.StatusBadRequest,
	repocrawl.ENOTFOUND:    http.StatusNotFound,
	repocrawl.EUNAVAILABLE: http.StatusServiceUnavailable,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// writeError writes err as {"error_message": {status text: message}}.
// Internal errors are logged since their detail is hidden from the client.
func (s *Server) writeError(c *gin.Context, err error) {
	code, message := repocrawl.ErrorCode(err), repocrawl.ErrorMessage(err)
	if code == repocrawl.EINTERNAL {
		s.Logger.Error("internal error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"),
			"err", err,
		)
	}

	status := ErrorStatusCode(code)
	c.AbortWithStatusJSON(status, gin.H{
		"error_message": gin.H{http.StatusText(status): message},
	})
}
