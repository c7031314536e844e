package middleware

import (
	"github.com/labstack/echo/v4"

	"greia/pkg/errors"
	"greia/pkg/logger"
	"greia/pkg/response"
)

// Limiter answers whether the caller identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit keys on the authenticated user when present, otherwise on the client IP.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if uid, ok := c.Get("uid").(string); ok && uid != "" {
				key = uid
			}

			if !limiter.Allow(key) {
				logger.Warn("RATE LIMIT: blocked %s %s for %s", c.Request().Method, c.Path(), key)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded, please slow down"))
			}

			return next(c)
		}
	}
}
