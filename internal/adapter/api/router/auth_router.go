package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

// SetupAuthRouter initializes auth routes. Both are public and rate limited per IP.
func SetupAuthRouter(e *echo.Echo, limiter middleware.Limiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	if limiter != nil {
		auth.Use(middleware.RateLimit(limiter))
	}

	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
}
