package entity

import (
	"sort"
	"strings"
	"time"
)

type ChatRoomType string

const (
	ChatRoomDirect ChatRoomType = "DIRECT"
	ChatRoomGroup  ChatRoomType = "GROUP"
)

type MessageType string

const (
	MessageText   MessageType = "TEXT"
	MessageImage  MessageType = "IMAGE"
	MessageFile   MessageType = "FILE"
	MessageSystem MessageType = "SYSTEM"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile, MessageSystem:
		return true
	}
	return false
}

type ChatRoom struct {
	ID             string       `json:"id" firestore:"id"`
	Type           ChatRoomType `json:"type" firestore:"type"`
	Name           string       `json:"name,omitempty" firestore:"name,omitempty"`
	ParticipantIDs []string     `json:"participant_ids" firestore:"participantIds"`
	LastMessageID  string       `json:"last_message_id,omitempty" firestore:"lastMessageId"`
	LastMessage    string       `json:"last_message,omitempty" firestore:"lastMessage"`
	CreatedBy      string       `json:"created_by" firestore:"createdBy"`
	CreatedAt      time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time    `json:"updated_at" firestore:"updatedAt"`
}

func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DirectRoomID returns the id shared by every direct room between the same two users.
func DirectRoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "direct_" + strings.Join(ids, "_")
}

// UserChatRoom is the per-(user, room) membership row carrying read state.
type UserChatRoom struct {
	ID          string     `json:"id" firestore:"id"`
	UserID      string     `json:"user_id" firestore:"userId"`
	ChatRoomID  string     `json:"chat_room_id" firestore:"chatRoomId"`
	IsAdmin     bool       `json:"is_admin" firestore:"isAdmin"`
	UnreadCount int        `json:"unread_count" firestore:"unreadCount"`
	LastReadAt  *time.Time `json:"last_read_at,omitempty" firestore:"lastReadAt"`
	JoinedAt    time.Time  `json:"joined_at" firestore:"joinedAt"`
}

func MembershipID(userID, roomID string) string {
	return userID + "_" + roomID
}

type ChatMessage struct {
	ID         string      `json:"id" firestore:"id"`
	ChatRoomID string      `json:"chat_room_id" firestore:"chatRoomId"`
	SenderID   string      `json:"sender_id" firestore:"senderId"`
	Content    string      `json:"content" firestore:"content"`
	Type       MessageType `json:"type" firestore:"type"`
	FileURL    string      `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	FileName   string      `json:"file_name,omitempty" firestore:"fileName,omitempty"`
	FileType   string      `json:"file_type,omitempty" firestore:"fileType,omitempty"`
	IsRead     bool        `json:"is_read" firestore:"isRead"`
	ReadAt     *time.Time  `json:"read_at,omitempty" firestore:"readAt"`
	CreatedAt  time.Time   `json:"created_at" firestore:"createdAt"`
}

// RoomSummary is a room as seen by one participant.
type RoomSummary struct {
	*ChatRoom
	UnreadCount  int            `json:"unread_count"`
	LastReadAt   *time.Time     `json:"last_read_at,omitempty"`
	IsAdmin      bool           `json:"is_admin"`
	Participants []*UserSummary `json:"participants,omitempty"`
}
