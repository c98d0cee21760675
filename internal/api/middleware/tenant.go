package middleware

import (
	"errors"
	"net/http"

	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/api/dto/common"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/tenant"
	"github.com/osa911/formrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// ResolveTenant finds the app named by the :appId route parameter and checks
// the request Host against its domain allow-list.
func ResolveTenant(registry *tenant.Registry, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		appID := c.Param("appId")

		app, err := registry.Resolve(appID, c.Request.Host)
		switch {
		case errors.Is(err, tenant.ErrInvalidApp):
			m.ObserveSubmission(appID, metrics.OutcomeInvalidApp)
			utils.HandleError(c, http.StatusBadRequest, common.ErrCodeInvalidApp, common.MessageInvalidApp)
			return
		case errors.Is(err, tenant.ErrForbiddenDomain):
			m.ObserveSubmission(appID, metrics.OutcomeForbiddenDomain)
			utils.HandleError(c, http.StatusBadRequest, common.ErrCodeForbiddenDomain, common.MessageForbiddenDomain)
			return
		case err != nil:
			utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, common.MessageInternalServer)
			return
		}

		c.Set(constants.ContextKeyApp, app)
		c.Next()
	}
}

// GetApp returns the app resolved for the request
func GetApp(c *gin.Context) (*tenant.App, bool) {
	v, ok := c.Get(constants.ContextKeyApp)
	if !ok {
		return nil, false
	}
	app, ok := v.(*tenant.App)
	return app, ok
}
