package routes

import (
	"github.com/osa911/portfolio-contact/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures contact form routes. Rate limiting happens
// inside the handler, after validation, so malformed requests do not
// consume quota.
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler) {
	router.POST("/api/contact", contact.Submit)
}
