package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupInquiryRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	inquiryHandler := handler.GetInquiryHandler()

	inquiries := e.Group("/v1/inquiries")
	inquiries.Use(authMiddleware.Authenticate)

	inquiries.POST("", inquiryHandler.CreateInquiry)
	inquiries.GET("", inquiryHandler.ListInquiries)
	inquiries.PATCH("/:id", inquiryHandler.RespondToInquiry)
}
