package handlers

import (
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/tenant"
	"github.com/osa911/formrelay/internal/utils"
	"github.com/osa911/formrelay/internal/version"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	registry  *tenant.Registry
	localizer *i18n.Localizer
}

func NewHealthHandler(registry *tenant.Registry, localizer *i18n.Localizer) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		localizer: localizer,
	}
}

// DiagnosticResponse echoes what the relay sees of a request
type DiagnosticResponse struct {
	Locale  string              `json:"locale"`
	Locales []string            `json:"locales"`
	Headers map[string][]string `json:"headers"`
	Version version.BuildInfo   `json:"version"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status string `json:"status"`
	Apps   int    `json:"apps"`
}

// Diagnostic returns the negotiated locale, the request headers and the
// build information.
func (h *HealthHandler) Diagnostic(c *gin.Context) {
	utils.HandleSuccess(c, DiagnosticResponse{
		Locale:  h.localizer.Resolve(c.Query("locale"), c.GetHeader("Accept-Language")),
		Locales: h.localizer.Supported(),
		Headers: c.Request.Header,
		Version: version.GetBuildInfo(),
	})
}

func (h *HealthHandler) Check(c *gin.Context) {
	utils.HandleSuccess(c, HealthResponse{
		Status: "ok",
		Apps:   len(h.registry.Apps()),
	})
}
