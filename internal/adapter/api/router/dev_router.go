package router

import (
	"greia/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

// SetupDevRouter mounts credential-free token endpoints. Production never gets them.
func SetupDevRouter(e *echo.Echo, production bool) {
	devTokenHandler := handler.GetDevTokenHandler()
	if production || devTokenHandler == nil {
		return
	}

	e.GET("/_dev/token/user", devTokenHandler.GenerateUserToken)
	e.GET("/_dev/token/admin", devTokenHandler.GenerateAdminToken)
}
