package routes

import (
	"github.com/osa911/formrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures the public submission endpoint.
// The body is decoded before the locale is resolved so a locale field in
// the submission takes precedence over Accept-Language.
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler, m *Middleware) {
	router.POST("/:appId",
		m.RateLimit,
		m.Body,
		m.Tenant,
		m.Validation.BindContactRequest(),
		m.Locale,
		m.Validation.ValidateContactRequest(),
		contact.Submit,
	)
}
