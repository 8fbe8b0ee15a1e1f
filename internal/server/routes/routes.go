package routes

import (
	"github.com/osa911/portfolio-contact/internal/api/middleware"
	"github.com/osa911/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ServiceName identifies this service in traces
const ServiceName = "portfolio-contact"

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers) {
	// Health check endpoint
	SetupHealthRoutes(router, h.Health)

	// Contact routes (public)
	SetupContactRoutes(router, h.Contact)

	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}
}

// SetupGlobalMiddleware configures middleware that applies to all routes.
// RequestLogger must wrap Recovery so a panicking request still gets its
// single log line.
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, allowedOrigins []string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery())
	router.Use(otelgin.Middleware(ServiceName))
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.LimitRequestBody(middleware.DefaultMaxBodySize))
}
