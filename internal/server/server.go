package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osa911/formrelay/internal/api/handlers"
	"github.com/osa911/formrelay/internal/api/middleware"
	"github.com/osa911/formrelay/internal/api/validation"
	"github.com/osa911/formrelay/internal/config"
	"github.com/osa911/formrelay/internal/i18n"
	"github.com/osa911/formrelay/internal/logging"
	"github.com/osa911/formrelay/internal/mailer"
	"github.com/osa911/formrelay/internal/metrics"
	"github.com/osa911/formrelay/internal/ratelimit"
	"github.com/osa911/formrelay/internal/server/routes"
	"github.com/osa911/formrelay/internal/service"
	"github.com/osa911/formrelay/internal/tasks"
	"github.com/osa911/formrelay/internal/telemetry"
	"github.com/osa911/formrelay/internal/templates"
	"github.com/osa911/formrelay/internal/tenant"
	"github.com/osa911/formrelay/internal/version"

	"github.com/gin-gonic/gin"
)

// ServiceName identifies the relay in traces
const ServiceName = "formrelay"

// NewRouter builds the gin engine with the global middleware and all routes
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()

	// Forwarding headers are only trusted from the configured proxies
	if err := router.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	routes.SetupGlobalMiddleware(router, routes.GlobalOptions{
		ServiceName:    deps.ServiceName,
		AllowedOrigins: deps.Config.AllowedOrigins,
		LogRequests:    deps.Config.LogRequests,
		Metrics:        deps.Metrics,
	})

	validator := validation.NewContactValidator(deps.Localizer)

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(deps.Notifier, deps.Metrics),
		Health:  handlers.NewHealthHandler(deps.Registry, deps.Localizer),
	}
	if deps.Config.MetricsEnabled && deps.Metrics != nil {
		h.Metrics = deps.Metrics.Handler()
	}

	m := &routes.Middleware{
		RateLimit:  middleware.RateLimitMiddleware(deps.RateStore, deps.Metrics),
		Body:       middleware.PreserveRequestBody(deps.Config.MaxBodyBytes),
		Tenant:     middleware.ResolveTenant(deps.Registry, deps.Metrics),
		Locale:     middleware.ResolveLocale(deps.Localizer),
		Validation: middleware.NewValidationMiddleware(validator, deps.Metrics),
	}

	routes.Setup(router, h, m)
	return router, nil
}

// New builds every component of the relay from cfg
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	logger := logging.GetGlobalLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry, err := tenant.Load(cfg.AppsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load apps config: %w", err)
	}
	logger.Info("Loaded %d apps and %d transporters from %s", len(registry.Apps()), len(registry.Transporters()), cfg.AppsFile)

	localizer, err := i18n.New(cfg.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	renderer := templates.NewRenderer(cfg.ViewsDir)

	pool, err := mailer.NewPool(ctx, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create transporters: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
	}

	tracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: ServiceName,
		Version:     version.Version,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return nil, err
	}
	s.tracing = tracing

	m := metrics.New()

	s.executor = tasks.NewExecutor(tasks.ExecutorConfig{
		Concurrency: cfg.DeliveryConcurrency,
		Timeout:     cfg.DeliveryTimeout,
	})

	store, err := s.newRateStore(ctx)
	if err != nil {
		s.release(ctx)
		return nil, err
	}

	notifier := service.NewNotificationService(
		service.NewWebhookService(nil),
		service.NewMailService(registry, pool, renderer, localizer),
		s.executor,
		m,
	)

	serviceName := ""
	if cfg.OTLPEndpoint != "" {
		serviceName = ServiceName
	}

	router, err := NewRouter(Dependencies{
		Config:      cfg,
		Registry:    registry,
		Localizer:   localizer,
		RateStore:   store,
		Notifier:    notifier,
		Metrics:     m,
		ServiceName: serviceName,
	})
	if err != nil {
		s.release(ctx)
		return nil, err
	}
	s.router = router

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// newRateStore uses Redis when REDIS_URL is set and an in-memory store
// swept by a janitor otherwise.
func (s *Server) newRateStore(ctx context.Context) (ratelimit.Store, error) {
	limits := ratelimit.Config{Window: s.cfg.RateLimitWindow, Max: s.cfg.RateLimitMax}
	logger := logging.GetGlobalLogger()

	if s.cfg.RedisURL != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, s.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		s.redis = rdb
		logger.Info("Rate limiting %d requests per %s in Redis", limits.Max, limits.Window)
		return ratelimit.NewRedisStore(rdb, limits), nil
	}

	store := ratelimit.NewMemoryStore(limits)
	s.janitor = tasks.NewJanitor("ratelimit-cleanup", limits.Window, func() {
		if n := store.Cleanup(); n > 0 {
			logger.Debug("Dropped %d idle rate limit entries", n)
		}
	})
	logger.Info("Rate limiting %d requests per %s in memory", limits.Max, limits.Window)
	return store, nil
}

// Handler returns the HTTP handler serving the relay
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the background jobs and serves until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	logger := logging.GetGlobalLogger()

	if s.janitor != nil {
		s.janitor.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Relay listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.release(context.Background())
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.DeliveryTimeout+5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, then drains in-flight deliveries
func (s *Server) Shutdown(ctx context.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Info("Shutting down relay...")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.release(ctx); err != nil {
		errs = append(errs, err)
	}

	logger.Info("Relay stopped")
	return errors.Join(errs...)
}

// release stops the background components in dependency order
func (s *Server) release(ctx context.Context) error {
	var errs []error

	if s.janitor != nil {
		s.janitor.Stop()
	}
	if s.executor != nil {
		if err := s.executor.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("delivery drain: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.tracing != nil {
		if err := s.tracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Run builds the relay from cfg and serves until ctx is cancelled
func Run(ctx context.Context, cfg *config.Config) error {
	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Start(ctx)
}
