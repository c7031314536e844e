package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createRoomRequest struct {
	Type           string   `json:"type" validate:"omitempty,oneof=DIRECT GROUP"`
	Name           string   `json:"name" validate:"max=100"`
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,required"`
}

type sendMessageRequest struct {
	ChatRoomID string `json:"chat_room_id" validate:"required"`
	Content    string `json:"content" validate:"max=5000"`
	Type       string `json:"type" validate:"omitempty,oneof=TEXT IMAGE FILE"`
	FileURL    string `json:"file_url" validate:"omitempty,url"`
	FileName   string `json:"file_name" validate:"max=255"`
	FileType   string `json:"file_type" validate:"max=100"`
}

func (h *ChatHandler) GetRooms(c echo.Context) error {
	rooms, err := h.chatUseCase.ListRooms(c.Request().Context(), callerID(c))
	if err != nil {
		return response.Error(c, err)
	}

	if rooms == nil {
		rooms = []*entity.RoomSummary{}
	}
	return response.Success(c, rooms)
}

func (h *ChatHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	roomType := entity.ChatRoomType(req.Type)
	if roomType == "" {
		roomType = entity.ChatRoomDirect
		if len(req.ParticipantIDs) > 1 {
			roomType = entity.ChatRoomGroup
		}
	}

	room, err := h.chatUseCase.CreateRoom(c.Request().Context(), callerID(c), usecase.CreateRoomInput{
		Type:           roomType,
		Name:           req.Name,
		ParticipantIDs: req.ParticipantIDs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

// GetMessages reads ?roomId=&limit=&before=. Fetching history marks it read.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	roomID := c.QueryParam("roomId")
	if roomID == "" {
		return response.Error(c, errors.Validation("roomId is required"))
	}

	before, err := utils.ParseTimeParam(c.QueryParam("before"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid before timestamp", err))
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return response.Error(c, errors.BadRequest("Invalid limit", err))
		}
	}

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), callerID(c), roomID, before, limit)
	if err != nil {
		return response.Error(c, err)
	}

	if messages == nil {
		messages = []*entity.ChatMessage{}
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), callerID(c), usecase.SendMessageInput{
		ChatRoomID: req.ChatRoomID,
		Content:    req.Content,
		Type:       entity.MessageType(req.Type),
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		FileType:   req.FileType,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkMessageRead(c echo.Context) error {
	message, err := h.chatUseCase.MarkRead(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	if err := h.chatUseCase.DeleteMessage(c.Request().Context(), callerID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Message deleted successfully"})
}
