package entity

import "time"

type NotificationType string

const (
	NotificationChatMessage           NotificationType = "CHAT_MESSAGE"
	NotificationVerificationSubmitted NotificationType = "VERIFICATION_SUBMITTED"
	NotificationVerificationDecided   NotificationType = "VERIFICATION_DECIDED"
	NotificationInquiryReceived       NotificationType = "INQUIRY_RECEIVED"
)

type Notification struct {
	ID        string            `json:"id" firestore:"id"`
	UserID    string            `json:"user_id" firestore:"userId"`
	SenderID  string            `json:"sender_id,omitempty" firestore:"senderId,omitempty"`
	Type      NotificationType  `json:"type" firestore:"type"`
	Title     string            `json:"title" firestore:"title"`
	Content   string            `json:"content" firestore:"content"`
	Data      map[string]string `json:"data,omitempty" firestore:"data,omitempty"`
	IsRead    bool              `json:"is_read" firestore:"isRead"`
	ReadAt    *time.Time        `json:"read_at,omitempty" firestore:"readAt"`
	CreatedAt time.Time         `json:"created_at" firestore:"createdAt"`
}
