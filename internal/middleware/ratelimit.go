package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/config"
)

// RateLimit returns a fixed-window limiter: each client IP gets
// cfg.PerMinute requests per route per minute, tracked in Redis so the
// budget holds across instances. With rate limiting disabled or no Redis
// client, the middleware is a pass-through. Redis failures also pass the
// request through; the limiter protects the service, it must never take it
// down.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	window := time.Minute
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s:%d",
				cfg.Prefix, c.RealIP(), c.Path(), time.Now().Unix()/int64(window.Seconds()))

			ctx := c.Request().Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, window)
			}

			remaining := int64(cfg.PerMinute) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.PerMinute))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.PerMinute) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				return apperr.RateLimited("Rate limit exceeded")
			}
			return next(c)
		}
	}
}
