package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/osa911/portfolio-contact/internal/api/dto/common"
	"github.com/osa911/portfolio-contact/internal/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a SERVER_ERROR response. It writes no log line
// of its own: the panic value and stack are attached to the request error and
// RequestLogger, which must be registered before this middleware, reports
// them on the access line.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())

				c.Abort()
				utils.HandleAPIError(c, fmt.Errorf("panic: %v", rec), http.StatusInternalServerError, common.ErrCodeServerError, nil)
				if last := c.Errors.Last(); last != nil {
					last.SetMeta(stack)
				}
			}
		}()

		c.Next()
	}
}
