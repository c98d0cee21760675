package utils

import (
	"net/http"

	"github.com/osa911/formrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a success response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data))
}

// HandleAccepted sends the bare {success:true} body and flushes it to the
// client so work started afterwards cannot delay the response.
func HandleAccepted(c *gin.Context) {
	c.JSON(http.StatusOK, common.APIResponse{Success: true})
	c.Writer.Flush()
}

// HandleError aborts the request with a single-error response
func HandleError(c *gin.Context, status int, code common.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, common.NewErrorResponse(code, message))
}

// HandleErrors aborts the request with an itemized error response
func HandleErrors(c *gin.Context, status int, errs []common.APIError) {
	c.AbortWithStatusJSON(status, common.NewErrorListResponse(errs))
}
