package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

type notificationListResponse struct {
	Items       []*entity.Notification `json:"items"`
	UnreadCount int64                  `json:"unread_count"`
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	unreadOnly, err := utils.ParseBoolParam(c.QueryParam("unread"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid unread flag", err))
	}
	page := utils.GetCursorParams(c, 50)

	items, unread, err := h.notificationUseCase.List(c.Request().Context(), callerID(c), unreadOnly != nil && *unreadOnly, page.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	if items == nil {
		items = []*entity.Notification{}
	}
	return response.Success(c, notificationListResponse{Items: items, UnreadCount: unread})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	n, err := h.notificationUseCase.MarkRead(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, n)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	count, err := h.notificationUseCase.MarkAllRead(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"updated": count})
}
