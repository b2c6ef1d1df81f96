package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nadvoretskiy13/attestation03/config"
	"github.com/nadvoretskiy13/attestation03/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultRateLimit  = 5
	defaultRateWindow = 15 * time.Minute
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// OnLimit renders the rejection. Defaults to a 429 JSON error.
	OnLimit gin.HandlerFunc
}

// RateLimiter counts requests per path and client IP in Redis. Without Redis,
// or when Redis fails, every request is let through.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(c *gin.Context) {
			util.CallTooManyRequests(c, "Too many requests. Please try again later.")
		}
	}

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path

		allowed, err := checkRateLimit(c.Request.Context(), rateLimitKey(clientIP, endpoint), cfg.Limit, cfg.Window)
		if err != nil {
			zap.L().Warn("rate limit check failed", zap.String("ip", clientIP), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			util.LogRateLimitExceeded(clientIP, endpoint)
			cfg.OnLimit(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func rateLimitKey(clientIP, endpoint string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, clientIP)
}

// checkRateLimit returns true while the counter for key is within limit.
func checkRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return true, nil
	}

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}

// ResetRateLimit clears the counter for a client on an endpoint. Without
// Redis there is no counter and nothing to do.
func ResetRateLimit(ctx context.Context, clientIP, endpoint string) error {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, rateLimitKey(clientIP, endpoint)).Err()
}
