package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorHandler turns the last error a handler attached with c.Error into a
// JSON response. Nothing is written if the handler already responded.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.StatusCode(err)

		event := logging.Ctx(c.Request.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(c.Request.Context()).Error()
		}
		event.Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request failed")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, ErrorResponse{Message: apperror.PublicMessage(err), Success: false})
	}
}

// Recovery converts panics into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error", Success: false})
	})
}
