package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Browsing is public.
	e.GET("/v1/listings", listingHandler.ListListings)
	e.GET("/v1/listings/:id", listingHandler.GetListing)

	listings := e.Group("/v1/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.POST("", listingHandler.CreateListing)
	listings.POST("/property", listingHandler.CreateProperty)
	listings.POST("/services", listingHandler.CreateService)
	listings.PATCH("/:id", listingHandler.UpdateListing)
	listings.PATCH("/:id/status", listingHandler.UpdateListingStatus)
	listings.DELETE("/:id", listingHandler.DeleteListing)
}
