package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

// SetupChatRouter sets up the REST chat routes. Realtime traffic goes through /v1/ws.
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chat := e.Group("/v1/chat")
	chat.Use(authMiddleware.Authenticate)

	chat.GET("/rooms", chatHandler.GetRooms)
	chat.POST("/rooms", chatHandler.CreateRoom)

	chat.GET("/messages", chatHandler.GetMessages)
	chat.POST("/messages", chatHandler.SendMessage)
	chat.POST("/messages/:id/read", chatHandler.MarkMessageRead)
	chat.DELETE("/messages/:id", chatHandler.DeleteMessage)
}
