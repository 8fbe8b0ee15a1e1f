package server

import (
	"github.com/osa911/portfolio-contact/internal/config"
	"github.com/osa911/portfolio-contact/internal/logging"
	"github.com/osa911/portfolio-contact/internal/ratelimit"
	"github.com/osa911/portfolio-contact/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	logger   *logging.Logger
	limiter  ratelimit.Limiter
	redis    *redis.Client
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}
