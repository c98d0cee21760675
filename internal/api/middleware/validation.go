package middleware

import (
	"net/http"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/api/dto/v1/contact"
	"github.com/osa911/formrelay/internal/api/validation"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// ValidationMiddleware handles request validation
type ValidationMiddleware struct {
	validator *validation.ContactValidator
	metrics   *metrics.Metrics
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(v *validation.ContactValidator, m *metrics.Metrics) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: v,
		metrics:   m,
	}
}

// BindContactRequest decodes the JSON body into a contact request
func (m *ValidationMiddleware) BindContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contact.ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.metrics.ObserveSubmission(c.Param("appId"), metrics.OutcomeInvalidBody)
			utils.HandleError(c, http.StatusBadRequest, common.ErrCodeInvalidBody, common.MessageInvalidBody)
			return
		}

		c.Set(constants.ContextKeyContactRequest, &req)
		c.Next()
	}
}

// ValidateContactRequest checks the bound request and answers with every
// violated rule, localized to the request locale.
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := GetContactRequest(c)
		if !ok {
			utils.HandleError(c, http.StatusBadRequest, common.ErrCodeInvalidBody, common.MessageInvalidBody)
			return
		}

		if errs := m.validator.Validate(req, GetLocale(c)); len(errs) > 0 {
			m.metrics.ObserveSubmission(c.Param("appId"), metrics.OutcomeInvalid)
			utils.HandleErrors(c, http.StatusBadRequest, errs)
			return
		}

		c.Next()
	}
}

// GetContactRequest returns the request bound by BindContactRequest
func GetContactRequest(c *gin.Context) (*contact.ContactRequest, bool) {
	v, ok := c.Get(constants.ContextKeyContactRequest)
	if !ok {
		return nil, false
	}
	req, ok := v.(*contact.ContactRequest)
	return req, ok
}
