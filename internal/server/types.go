package server

import (
	"net/http"

	"github.com/osa911/formrelay/internal/api/handlers"
	"github.com/osa911/formrelay/internal/config"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/ratelimit"
	"github.com/osa911/formrelay/internal/tasks"
	"github.com/osa911/formrelay/internal/telemetry"
	"github.com/osa911/formrelay/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server

	registry *tenant.Registry
	executor *tasks.Executor
	janitor  *tasks.Janitor
	redis    *redis.Client
	tracing  telemetry.ShutdownFunc
}

// Dependencies holds the process-scoped components the router is built from
type Dependencies struct {
	Config    *config.Config
	Registry  *tenant.Registry
	Localizer *i18n.Localizer
	RateStore ratelimit.Store
	Notifier  handlers.Notifier
	Metrics   *metrics.Metrics
	// ServiceName enables request tracing when set
	ServiceName string
}
