package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type FeedHandler struct {
	feedUseCase *usecase.FeedUseCase
}

func NewFeedHandler(feedUseCase *usecase.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

type createPostRequest struct {
	Content    string         `json:"content" validate:"max=5000"`
	Visibility string         `json:"visibility" validate:"omitempty,oneof=PUBLIC FRIENDS PRIVATE"`
	Location   string         `json:"location" validate:"max=300"`
	Hashtags   []string       `json:"hashtags" validate:"omitempty,max=30,dive,max=100"`
	Mentions   []string       `json:"mentions" validate:"omitempty,max=30,dive,max=100"`
	Media      []mediaRequest `json:"media" validate:"omitempty,max=10,dive"`
}

type createStoryRequest struct {
	Content string         `json:"content" validate:"max=500"`
	Media   []mediaRequest `json:"media" validate:"omitempty,max=1,dive"`
}

// ListPosts pages with ?cursor=, the created_at of the last item seen.
func (h *FeedHandler) ListPosts(c echo.Context) error {
	page := utils.GetCursorParams(c, 20)
	before, err := utils.ParseTimeParam(page.Cursor)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid cursor", err))
	}

	items, err := h.feedUseCase.ListFeed(c.Request().Context(), callerID(c), before, page.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	next := ""
	if len(items) == page.Limit {
		next = items[len(items)-1].CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if items == nil {
		items = []*entity.FeedItem{}
	}
	return response.Cursor(c, items, next)
}

func (h *FeedHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.feedUseCase.CreatePost(c.Request().Context(), callerID(c), usecase.CreatePostInput{
		Content:    req.Content,
		Visibility: entity.Visibility(req.Visibility),
		Location:   req.Location,
		Hashtags:   req.Hashtags,
		Mentions:   req.Mentions,
		Media:      toMedia(req.Media),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *FeedHandler) DeletePost(c echo.Context) error {
	if err := h.feedUseCase.DeletePost(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Post deleted successfully"})
}

func (h *FeedHandler) LikePost(c echo.Context) error {
	if err := h.feedUseCase.LikePost(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"liked": true})
}

func (h *FeedHandler) UnlikePost(c echo.Context) error {
	if err := h.feedUseCase.UnlikePost(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"liked": false})
}

func (h *FeedHandler) ListStories(c echo.Context) error {
	items, err := h.feedUseCase.ListStories(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	if items == nil {
		items = []*entity.FeedItem{}
	}
	return response.Success(c, items)
}

func (h *FeedHandler) CreateStory(c echo.Context) error {
	var req createStoryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	story, err := h.feedUseCase.CreateStory(c.Request().Context(), callerID(c), usecase.CreateStoryInput{
		Content: req.Content,
		Media:   toMedia(req.Media),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, story)
}

func (h *FeedHandler) ViewStory(c echo.Context) error {
	if err := h.feedUseCase.ViewStory(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"viewed": true})
}

func (h *FeedHandler) DeleteStory(c echo.Context) error {
	if err := h.feedUseCase.DeleteStory(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Story deleted successfully"})
}
