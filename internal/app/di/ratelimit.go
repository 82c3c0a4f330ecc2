package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"fluxfinance/internal/shared/ratelimiter"
)

// NewSignInLimiter creates the sign-in throttle.
// With Redis the counters are shared between instances; without it they live in process memory.
func NewSignInLimiter(rdb *redis.Client, limit int, window time.Duration) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, limit, window, "rl:signin:")
	}
	return ratelimiter.NewRateLimiter(limit, window)
}
