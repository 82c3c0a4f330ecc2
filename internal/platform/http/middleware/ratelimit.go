package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/shared/ratelimiter"
)

// MessageTooManySignInAttempts はスロットル時の429レスポンス本文です。
const MessageTooManySignInAttempts = "Too many sign-in attempts"

type retryAfterer interface {
	RetryAfter(key string) time.Duration
}

// SignInRateLimit throttles requests per client IP. window is only used for the
// Retry-After header when the limiter cannot report the remaining time itself.
func SignInRateLimit(limiter ratelimiter.Limiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if limiter.Allow(c.Request.Context(), key) {
			c.Next()
			return
		}

		wait := window
		if ra, ok := limiter.(retryAfterer); ok {
			wait = ra.RetryAfter(key)
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": MessageTooManySignInAttempts})
	}
}
