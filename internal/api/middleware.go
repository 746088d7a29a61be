package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasprado/library-server/internal/utils"
)

// RequestLogger returns a Gin middleware that logs every request with its
// outcome and latency through the application logger.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= 500 {
			logger.Error("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
			return
		}
		logger.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
	}
}
