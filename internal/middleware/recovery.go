package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"skyparcel/internal/pkg/apperrors"
)

// Recovery converts handler panics into a 500 response and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			slog.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", r),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("client", c.ClientIP()),
				slog.String("stack", string(debug.Stack())),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.ErrorResponse{
				Error: apperrors.ErrorBody{
					Code:    "INTERNAL",
					Message: "an unexpected error occurred",
				},
			})
		}()

		c.Next()
	}
}
