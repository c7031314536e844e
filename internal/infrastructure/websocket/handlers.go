package websocket

import (
	"context"
	"encoding/json"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

// Client -> server events.
const (
	EventPing        = "ping"
	EventPong        = "pong"
	EventSendMessage = usecase.EventMessage
	EventMarkRead    = usecase.EventMessageRead
	EventError       = usecase.EventError
)

type handlerFunc func(ctx context.Context, c *Client, data json.RawMessage) error

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

type sendMessagePayload struct {
	ChatRoomID string             `json:"chatRoomId"`
	Content    string             `json:"content"`
	Type       entity.MessageType `json:"type"`
	FileURL    string             `json:"fileUrl"`
	FileName   string             `json:"fileName"`
	FileType   string             `json:"fileType"`
}

type typingPayload struct {
	ChatRoomID string `json:"chatRoomId"`
	IsTyping   bool   `json:"isTyping"`
}

type markReadPayload struct {
	ChatRoomID string `json:"chatRoomId"`
	MessageID  string `json:"messageId"`
}

func (h *Hub) defaultHandlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		EventPing:           h.handlePing,
		EventSendMessage:    h.handleSendMessage,
		usecase.EventTyping: h.handleTyping,
		EventMarkRead:       h.handleMarkRead,
	}
}

// dispatch runs the handler for msg. Failures are reported to the sender as
// an error event; the connection stays open.
func (h *Hub) dispatch(ctx context.Context, c *Client, msg inbound) {
	handle, ok := h.handlers[msg.Event]
	if !ok {
		h.sendTo(c, EventError, ErrorPayload{Code: "BAD_REQUEST", Message: "Unknown event", Event: msg.Event})
		return
	}
	if err := handle(ctx, c, msg.Data); err != nil {
		if errors.StatusOf(err) >= 500 {
			logger.Error("WebSocket: %s from %s failed: %v", msg.Event, c.userID, err)
		}
		code, message := errors.PublicMessage(err)
		h.sendTo(c, EventError, ErrorPayload{Code: code, Message: message, Event: msg.Event})
	}
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.Validation("data is required")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.BadRequest("Invalid event data", err)
	}
	return nil
}

func (h *Hub) handlePing(ctx context.Context, c *Client, _ json.RawMessage) error {
	h.sendTo(c, EventPong, nil)
	return nil
}

// handleSendMessage persists through the chat use case, which fans the
// message out to every participant including the sender's other tabs.
func (h *Hub) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) error {
	var p sendMessagePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	_, err := h.chat.SendMessage(ctx, c.userID, usecase.SendMessageInput{
		ChatRoomID: p.ChatRoomID,
		Content:    p.Content,
		Type:       p.Type,
		FileURL:    p.FileURL,
		FileName:   p.FileName,
		FileType:   p.FileType,
	})
	return err
}

func (h *Hub) handleTyping(ctx context.Context, c *Client, data json.RawMessage) error {
	var p typingPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	return h.chat.Typing(ctx, c.userID, p.ChatRoomID, p.IsTyping)
}

func (h *Hub) handleMarkRead(ctx context.Context, c *Client, data json.RawMessage) error {
	var p markReadPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	if p.MessageID == "" {
		return errors.Validation("messageId is required")
	}
	_, err := h.chat.MarkRead(ctx, c.userID, p.MessageID)
	return err
}
