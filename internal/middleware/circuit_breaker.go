package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"skyparcel/internal/pkg/apperrors"
)

// breaker is a per-route failure gate. It opens after a run of consecutive
// 5xx responses and lets a single probe through once the cooldown passes.
type breaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration

	consecutiveFails int
	openedAt         time.Time
	probing          bool
}

func (b *breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consecutiveFails < b.threshold {
		return true
	}
	if b.probing {
		return false
	}
	if time.Since(b.openedAt) >= b.cooldown {
		b.probing = true
		return true
	}
	return false
}

func (b *breaker) observe(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if status >= http.StatusInternalServerError {
		b.consecutiveFails++
		b.openedAt = time.Now()
		return
	}
	b.consecutiveFails = 0
}

// CircuitBreaker sheds load per route once a handler starts failing
// repeatedly, answering 503 until the cooldown elapses.
func CircuitBreaker(threshold, cooldownSeconds int) gin.HandlerFunc {
	var breakers sync.Map
	cooldown := time.Duration(cooldownSeconds) * time.Second

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		val, _ := breakers.LoadOrStore(route, &breaker{threshold: threshold, cooldown: cooldown})
		b := val.(*breaker)

		if !b.admit() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apperrors.ErrorResponse{
				Error: apperrors.ErrorBody{
					Code:    "CIRCUIT_OPEN",
					Message: "service temporarily unavailable, retry shortly",
				},
			})
			return
		}

		c.Next()

		b.observe(c.Writer.Status())
	}
}
