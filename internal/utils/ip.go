package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client address used for rate limiting and logs.
// Forwarding headers are only honoured when the peer is a trusted proxy,
// which the engine is configured with at startup.
func GetRealIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
