package middleware

import (
	"strconv"
	"time"

	"github.com/osa911/portfolio-contact/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// SetRateLimitHeaders exposes the caller's quota state
func SetRateLimitHeaders(c *gin.Context, d ratelimit.Decision) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.Unix(), 10))

	if !d.Allowed {
		retryAfter := int(time.Until(d.ResetTime).Seconds() + 0.5)
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
}
