package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownIP is returned when no client address header is present
const UnknownIP = "unknown"

// clientIPHeaders are consulted in order after X-Forwarded-For
var clientIPHeaders = []string{"X-Client-IP", "CF-Connecting-IP", "X-Real-IP"}

// GetRealIP extracts the client IP from proxy headers. The result is best
// effort: headers can be forged by the caller unless a trusted proxy
// overwrites them, so it must not be used for authentication.
func GetRealIP(c *gin.Context) string {
	// X-Forwarded-For can be a comma-separated list
	// Format: client, proxy1, proxy2, ...
	// We want the first (leftmost) IP which is the client
	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	for _, header := range clientIPHeaders {
		if ip := strings.TrimSpace(c.GetHeader(header)); ip != "" {
			return ip
		}
	}

	return UnknownIP
}
