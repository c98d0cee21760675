package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osa911/formrelay/internal/logging"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the relay process
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           string   `env:"PORT" envDefault:"3023"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	LogRequests bool   `env:"LOG_REQUESTS"`
	RedactPII   bool   `env:"LOG_REDACT_PII"`

	// Apps & Templates
	AppsFile      string `env:"APPS_CONFIG" envDefault:"config.yaml"`
	ViewsDir      string `env:"VIEWS_DIR"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`

	// Rate Limiting
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"2m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"3"`
	RedisURL        string        `env:"REDIS_URL"`

	// Delivery
	DeliveryTimeout     time.Duration `env:"DELIVERY_TIMEOUT" envDefault:"30s"`
	DeliveryConcurrency int64         `env:"DELIVERY_CONCURRENCY" envDefault:"8"`

	// Telemetry Configuration
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.DefaultLocale = strings.ToLower(c.DefaultLocale)

	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.DeliveryConcurrency <= 0 {
		c.DeliveryConcurrency = 1
	}

	// Set default log file if not set
	if c.LogFile == "" {
		if c.IsProduction() {
			c.LogFile = "/app/logs/formrelay.log"
		} else {
			c.LogFile = "./logs/formrelay.log"
		}
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(c.LogFile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	return nil
}

// IsProduction reports whether the relay runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.Host + ":" + c.Port
}

// LogConfig returns the logger settings, rotating the log file at 100MB.
func (c *Config) LogConfig() *logging.LogConfig {
	return &logging.LogConfig{
		Level:      c.LogLevel,
		File:       c.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		RedactPII:  c.RedactPII,
	}
}
