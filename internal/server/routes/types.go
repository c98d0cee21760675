package routes

import (
	"net/http"

	"github.com/osa911/formrelay/internal/api/handlers"
	"github.com/osa911/formrelay/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler

	// Metrics serves the Prometheus exposition. Nil disables /metrics.
	Metrics http.Handler
}

// Middleware contains the per-route middleware of the submission endpoint
type Middleware struct {
	RateLimit  gin.HandlerFunc
	Body       gin.HandlerFunc
	Tenant     gin.HandlerFunc
	Locale     gin.HandlerFunc
	Validation *middleware.ValidationMiddleware
}
