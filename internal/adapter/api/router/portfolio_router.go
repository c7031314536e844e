package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupPortfolioRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	portfolioHandler := handler.GetPortfolioHandler()

	e.GET("/v1/portfolios/:id", portfolioHandler.GetByID)

	portfolio := e.Group("/v1/portfolio")
	portfolio.Use(authMiddleware.Authenticate)

	portfolio.GET("", portfolioHandler.GetMine)
	portfolio.PATCH("", portfolioHandler.Update)

	portfolio.POST("/projects", portfolioHandler.AddProject)
	portfolio.PATCH("/projects", portfolioHandler.UpdateProject)
	portfolio.DELETE("/projects/:id", portfolioHandler.DeleteProject)

	portfolio.POST("/reviews", portfolioHandler.CreateReview)
	portfolio.PATCH("/reviews", portfolioHandler.UpdateReview)
	portfolio.DELETE("/reviews/:id", portfolioHandler.DeleteReview)
}
