package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupVerificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	verificationHandler := handler.GetVerificationHandler()

	verification := e.Group("/v1/verification")
	verification.Use(authMiddleware.Authenticate)

	verification.POST("/submit", verificationHandler.Submit)
	verification.GET("", verificationHandler.GetMine)
}
