package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/logger"
)

// ErrorHandlerMiddleware converts errors recorded on the gin context into
// the standard error payload, with the HTTP status derived from the error's
// classification.
func ErrorHandlerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.WithContext(c.Request.Context()).Errorw("request failed", "error", err)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
