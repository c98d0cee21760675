package utils

import (
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs err with the request context and answers with a
// single-error response. Error details never reach the caller.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	logger := logging.GetGlobalLogger()
	logger.LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	HandleError(c, status, code, message)
}
