package middleware

import (
	"strconv"
	"time"

	"github.com/osa911/formrelay/internal/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records every request by route template and status
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
