package router

import (
	"github.com/labstack/echo/v4"

	"greia/internal/adapter/api/handler"
	"greia/internal/adapter/api/middleware"
)

func SetupFeedRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	feedHandler := handler.GetFeedHandler()

	posts := e.Group("/v1/posts")
	posts.Use(authMiddleware.Authenticate)

	posts.GET("", feedHandler.ListPosts)
	posts.POST("", feedHandler.CreatePost)
	posts.DELETE("/:id", feedHandler.DeletePost)
	posts.POST("/:id/like", feedHandler.LikePost)
	posts.DELETE("/:id/like", feedHandler.UnlikePost)

	stories := e.Group("/v1/stories")
	stories.Use(authMiddleware.Authenticate)

	stories.GET("", feedHandler.ListStories)
	stories.POST("", feedHandler.CreateStory)
	stories.PATCH("/:id/view", feedHandler.ViewStory)
	stories.DELETE("/:id", feedHandler.DeleteStory)
}
