package routes

import (
	"github.com/osa911/formrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures the diagnostic and health check endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/", health.Diagnostic)
	router.GET("/health", health.Check)
}
