package routes

import (
	"github.com/osa911/formrelay/internal/api/middleware"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/metrics"
	coremw "github.com/osa911/formrelay/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GlobalOptions controls the middleware applied to every route
type GlobalOptions struct {
	ServiceName    string
	AllowedOrigins []string
	LogRequests    bool
	Metrics        *metrics.Metrics
}

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetGlobalLogger()

	SetupHealthRoutes(router, h.Health)

	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	SetupContactRoutes(router, h.Contact, m)

	logger.Debug("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, opts GlobalOptions) {
	router.Use(coremw.RequestID())
	router.Use(coremw.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(middleware.HTTPMetrics(opts.Metrics))
	router.Use(middleware.RequestLogger(opts.LogRequests))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(opts.AllowedOrigins))
}
