package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osa911/portfolio-contact/internal/api/handlers"
	"github.com/osa911/portfolio-contact/internal/config"
	"github.com/osa911/portfolio-contact/internal/logging"
	"github.com/osa911/portfolio-contact/internal/ratelimit"
	"github.com/osa911/portfolio-contact/internal/server/routes"
	"github.com/osa911/portfolio-contact/internal/service"
	"github.com/osa911/portfolio-contact/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// NewServer creates a new server instance with all dependencies wired
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	// Set release mode for production
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		logger:   logger,
		registry: telemetry.NewRegistry(),
	}
	s.metrics = telemetry.NewMetrics(s.registry)

	if err := s.initLimiter(); err != nil {
		return nil, err
	}

	return s, nil
}

// initLimiter selects the shared Redis store when configured and the
// in-process store otherwise
func (s *Server) initLimiter() error {
	if s.cfg.RedisURL == "" {
		s.limiter = ratelimit.NewMemoryStore(s.cfg.RateLimit())
		s.logger.Info("rate limiter initialized", "store", "memory")
		return nil
	}

	opts, err := redis.ParseURL(s.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	s.redis = redis.NewClient(opts)
	s.limiter = ratelimit.NewRedisStore(s.redis, s.cfg.RateLimit(), ratelimit.WithKeyPrefix(s.cfg.RateLimitRedisPrefix))
	s.logger.Info("rate limiter initialized", "store", "redis", "prefix", s.cfg.RateLimitRedisPrefix)
	return nil
}

// Init registers middleware and routes
func (s *Server) Init() error {
	email := service.NewEmailService(s.cfg.Email())
	turnstile := service.NewTurnstileService(s.cfg.TurnstileSecretKey, s.cfg.TurnstileVerifyURL)

	if !email.Enabled() {
		s.logger.Warn("email provider not configured, contact form disabled")
	}
	if !turnstile.Enabled() {
		s.logger.Warn("turnstile secret not configured, all submissions will fail verification")
	}

	checks := map[string]handlers.HealthCheck{}
	if s.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redis.Ping(ctx).Err()
		}
	}

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(s.limiter, turnstile, email, s.metrics),
		Health:  handlers.NewHealthHandler(checks),
		Metrics: telemetry.Handler(s.registry),
	}

	routes.SetupGlobalMiddleware(s.router, s.logger, s.cfg.AllowedOrigins)
	routes.Setup(s.router, h)
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr, "env", s.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close releases external connections
func (s *Server) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
