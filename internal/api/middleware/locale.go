package middleware

import (
	"github.com/osa911/formrelay/internal/api/constants"
	"github.com/osa911/formrelay/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ResolveLocale picks the request locale from the submission's locale field,
// then Accept-Language, then the default.
func ResolveLocale(localizer *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		explicit := ""
		if req, ok := GetContactRequest(c); ok && req.Locale != nil {
			explicit = *req.Locale
		}

		c.Set(constants.ContextKeyLocale, localizer.Resolve(explicit, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// GetLocale returns the locale resolved for the request
func GetLocale(c *gin.Context) string {
	return c.GetString(constants.ContextKeyLocale)
}
