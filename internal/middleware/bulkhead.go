package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyparcel/internal/pkg/apperrors"
)

// Bulkhead caps in-flight requests for a route group. Requests beyond the
// cap are rejected immediately rather than queued.
func Bulkhead(maxConcurrent int) gin.HandlerFunc {
	slots := make(chan struct{}, maxConcurrent)

	return func(c *gin.Context) {
		select {
		case slots <- struct{}{}:
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apperrors.ErrorResponse{
				Error: apperrors.ErrorBody{
					Code:    "SERVICE_UNAVAILABLE",
					Message: "server is at capacity, please try again later",
				},
			})
			return
		}
		defer func() { <-slots }()

		c.Next()
	}
}
