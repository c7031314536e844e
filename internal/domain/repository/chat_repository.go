package repository

import (
	"context"
	"time"

	"greia/internal/domain/entity"
)

type ChatRepository interface {
	// CreateRoom writes the room and one membership row per participant. When a
	// room with the same id exists it is returned unchanged with created=false.
	CreateRoom(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error)
	GetRoom(ctx context.Context, id string) (*entity.ChatRoom, error)
	GetRooms(ctx context.Context, ids []string) ([]*entity.ChatRoom, error)
	GetMembership(ctx context.Context, userID, roomID string) (*entity.UserChatRoom, error)
	ListMemberships(ctx context.Context, userID string) ([]*entity.UserChatRoom, error)

	// ListMessages returns up to limit messages newest first, optionally only
	// those created strictly before `before`.
	ListMessages(ctx context.Context, roomID string, before *time.Time, limit int) ([]*entity.ChatMessage, error)
	FindMessage(ctx context.Context, messageID string) (*entity.ChatMessage, error)

	// SendMessage persists msg, moves the room's last message pointer and
	// increments unreadCount on every other participant's membership row,
	// atomically. Fails with Forbidden when the sender is not a participant.
	SendMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatRoom, error)
	// MarkRoomRead marks every unread message not sent by readerID as read and
	// resets the reader's unread counter.
	MarkRoomRead(ctx context.Context, roomID, readerID string, at time.Time) error
	// MarkMessageRead marks one message read (once) and resets the reader's
	// unread counter.
	MarkMessageRead(ctx context.Context, roomID, messageID, readerID string, at time.Time) (*entity.ChatMessage, error)
	// DeleteMessage removes the message and recomputes the room's last message.
	DeleteMessage(ctx context.Context, roomID, messageID string) (*entity.ChatRoom, error)
}
