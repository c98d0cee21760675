package middleware

import (
	"time"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger is a middleware that logs request information.
// It only logs when enabled, which maps to LOG_REQUESTS.
func RequestLogger(enabled bool) gin.HandlerFunc {
	logging.GetGlobalLogger().Debug("RequestLogger middleware initialized (enabled=%v)", enabled)

	// If logging is disabled, return a no-op middleware
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logging.GetGlobalLogger().LogHTTPRequest(
			method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
