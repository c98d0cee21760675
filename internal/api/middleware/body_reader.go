package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds request bodies when no limit is configured
const DefaultMaxBodySize = 64 * 1024

// PreserveRequestBody reads the request body once, up to maxBodySize bytes,
// and restores it so validators and handlers can both read it.
func PreserveRequestBody(maxBodySize int64) gin.HandlerFunc {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		// Only process requests that carry a body
		if c.Request.Body == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch) {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.HandleError(c, http.StatusRequestEntityTooLarge, common.ErrCodeBodyTooLarge, common.MessageBodyTooLarge)
				return
			}
			utils.HandleError(c, http.StatusBadRequest, common.ErrCodeInvalidBody, common.MessageInvalidBody)
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		// Store body in context for potential use later
		c.Set(constants.ContextKeyRawBody, bodyBytes)

		c.Next()
	}
}
