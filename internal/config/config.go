package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/osa911/portfolio-contact/internal/logging"
	"github.com/osa911/portfolio-contact/internal/ratelimit"
	"github.com/osa911/portfolio-contact/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string   `env:"LOG_FILE"`

	// Email Configuration
	ResendAPIKey     string  `env:"RESEND_API_KEY"`
	ContactToEmail   string  `env:"CONTACT_TO_EMAIL"`
	ContactFromEmail string  `env:"CONTACT_FROM_EMAIL"`
	EmailAPIURL      string  `env:"EMAIL_API_URL" envDefault:"https://api.resend.com/emails"`
	EmailSendRate    float64 `env:"EMAIL_SEND_RATE" envDefault:"2"`

	// Turnstile Configuration
	TurnstileSecretKey string `env:"TURNSTILE_SECRET_KEY"`
	TurnstileVerifyURL string `env:"TURNSTILE_VERIFY_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`

	// Rate Limit Configuration
	RateLimitWindowSeconds int    `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
	RateLimitMaxRequests   int    `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"5"`
	RedisURL               string `env:"REDIS_URL"`
	RateLimitRedisPrefix   string `env:"RATE_LIMIT_REDIS_PREFIX" envDefault:"ratelimit:contact"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// godotenv.Load never overrides variables that are already set, so the
	// environment-specific file takes precedence over the generic one.
	envLocations := []string{".env"}
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}
	for _, loc := range envLocations {
		_ = godotenv.Load(loc)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if cfg.RateLimitWindowSeconds <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive, got %d", cfg.RateLimitWindowSeconds)
	}
	if cfg.RateLimitMaxRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", cfg.RateLimitMaxRequests)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RateLimit returns the fixed-window limiter settings
func (c *Config) RateLimit() ratelimit.Config {
	return ratelimit.Config{
		Window:      time.Duration(c.RateLimitWindowSeconds) * time.Second,
		MaxRequests: c.RateLimitMaxRequests,
	}
}

// Email returns the e-mail provider settings
func (c *Config) Email() service.EmailConfig {
	return service.EmailConfig{
		APIKey:   c.ResendAPIKey,
		To:       c.ContactToEmail,
		From:     c.ContactFromEmail,
		APIURL:   c.EmailAPIURL,
		SendRate: c.EmailSendRate,
	}
}

// Logging returns the logger settings
func (c *Config) Logging() *logging.Config {
	logCfg := logging.DefaultConfig()
	logCfg.Level = c.LogLevel
	logCfg.File = c.LogFile
	return logCfg
}
