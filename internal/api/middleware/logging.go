package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/osa911/portfolio-contact/internal/api/constants"
	"github.com/osa911/portfolio-contact/internal/logging"
	"github.com/osa911/portfolio-contact/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes exactly one structured line per request once the
// handler chain has finished. Only request metadata is logged, never the
// request body.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		start := time.Now()

		// Process request
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		attrs := []slog.Attr{
			slog.String("route", route),
			slog.String("method", c.Request.Method),
			slog.String("correlationId", c.GetString(constants.ContextKeyRequestID)),
			slog.String("clientIp", utils.GetRealIP(c)),
			slog.Int("status", status),
			slog.Int64("latencyMs", time.Since(start).Milliseconds()),
		}
		if code := c.GetString(constants.ContextKeyErrorCode); code != "" {
			attrs = append(attrs, slog.String("errorCode", code))
		}
		// Internal causes are only recorded for server-side failures
		if status >= 500 {
			if last := c.Errors.Last(); last != nil {
				attrs = append(attrs, slog.String("error", last.Error()))
				// Panic stacks are only written at debug level
				if stack, ok := last.Meta.(string); ok && logger.Enabled(context.Background(), slog.LevelDebug) {
					attrs = append(attrs, slog.String("stack", stack))
				}
			}
		}

		logger.LogAttrs(context.Background(), levelForStatus(status), "request", attrs...)
	}
}

// levelForStatus returns the log level for the HTTP status code
func levelForStatus(code int) slog.Level {
	switch {
	case code >= 500:
		return slog.LevelError
	case code >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
