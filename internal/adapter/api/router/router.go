package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/middleware"
)

// Setup registers every /v1 route. Handlers must already be set up.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, authLimiter middleware.Limiter) {
	SetupAuthRouter(e, authLimiter)
	SetupUserRouter(e, authMiddleware)
	SetupVerificationRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupInquiryRouter(e, authMiddleware)
	SetupTransactionRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupPortfolioRouter(e, authMiddleware)
	SetupFeedRouter(e, authMiddleware)
	SetupDashboardRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
}
