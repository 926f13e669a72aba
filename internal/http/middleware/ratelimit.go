package middleware

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig configures the Redis-based hourly limiter.
type RateLimitConfig struct {
	Redis     *redis.Client
	PerHour   int    // requests per client per hour; <=0 disables
	KeyPrefix string // e.g. "rl:client:"
}

// RateLimitMiddleware applies a fixed-window per-client hourly limit on top
// of the lifetime quota. It expects the resolved client in echo.Context
// (set by ClientGateMiddleware). Redis being down or unconfigured fails
// open so a cache outage cannot take the API with it.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:client:"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl, ok := ClientFromCtx(c)
			if !ok || cfg.PerHour <= 0 || cfg.Redis == nil {
				return next(c)
			}

			// fixed-window key: rl:client:{id}:{YYYYMMDDHH}
			now := time.Now()
			key := cfg.KeyPrefix + cl.ClientID + ":" + now.Format("2006010215")

			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(c.Request().Context(), key)
			pipe.Expire(c.Request().Context(), key, 2*time.Hour)
			if _, err := pipe.Exec(c.Request().Context()); err != nil {
				return next(c)
			}

			if cnt.Val() > int64(cfg.PerHour) {
				nextWindow := now.Truncate(time.Hour).Add(time.Hour)
				c.Response().Header().Set("Retry-After", nextWindow.UTC().Format(http.TimeFormat))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}
