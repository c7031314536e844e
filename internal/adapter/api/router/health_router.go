package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
)

// SetupHealthRouter registers the unauthenticated ops endpoints. metrics may be nil.
func SetupHealthRouter(e *echo.Echo, metrics echo.HandlerFunc) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/health/services", healthHandler.CheckDependencies)
	if metrics != nil {
		e.GET("/metrics", metrics)
	}
}
