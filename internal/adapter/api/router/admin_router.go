package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/verifications", adminHandler.ListVerifications)
	admin.PATCH("/verifications/:id", adminHandler.DecideVerification)
}
