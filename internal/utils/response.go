package utils

import (
	"net/http"

	"github.com/osa911/portfolio-contact/internal/api/constants"
	"github.com/osa911/portfolio-contact/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a {"ok":true} response
func HandleSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, common.NewSuccessResponse())
}

// HandleAPIError sends an error response and records the error code, and
// the internal cause if any, for the access log. The cause is never
// written to the response.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, details interface{}) {
	c.Set(constants.ContextKeyErrorCode, string(code))
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, common.NewErrorResponse(code, details))
}
