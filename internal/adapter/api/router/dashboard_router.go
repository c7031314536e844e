package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupDashboardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	dashboardHandler := handler.GetDashboardHandler()

	e.GET("/v1/dashboard/stats", dashboardHandler.GetStats, authMiddleware.Authenticate)
}
