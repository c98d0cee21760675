package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/ratelimit"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware bounds requests per client address using store. Store
// failures let the request through.
func RateLimitMiddleware(store ratelimit.Store, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.GetRealIP(c)

		decision, err := store.Take(c.Request.Context(), key)
		if err != nil {
			logging.GetGlobalLogger().Warn("Rate limit store unavailable, allowing %s: %v", key, err)
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
		c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			m.ObserveRateLimited()
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			utils.HandleError(c, http.StatusTooManyRequests, common.ErrCodeTooManyRequests, common.MessageTooManyRequests)
			return
		}

		c.Next()
	}
}
