package usecase

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

// Realtime event names.
const (
	EventMessage     = "message"
	EventTyping      = "typing"
	EventUserTyping  = "userTyping"
	EventMessageRead = "messageRead"
	EventUserOnline  = "userOnline"
	EventUserOffline = "userOffline"
	EventError       = "error"
	EventDeleted     = "messageDeleted"
)

const (
	notificationPreviewLen = 100
	maxHistoryLimit        = 200
)

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	userRepo      repository.UserRepository
	notifications *NotificationUseCase
	broadcaster   Broadcaster
	sendLimiter   Limiter
	roomLimiter   Limiter
	typingLimiter Limiter
	historyLimit  int
	now           Clock
}

type ChatLimiters struct {
	Send   Limiter
	Room   Limiter
	Typing Limiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifications *NotificationUseCase,
	broadcaster Broadcaster,
	limiters ChatLimiters,
	historyLimit int,
	now Clock,
) *ChatUseCase {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if limiters.Send == nil {
		limiters.Send = allowAll{}
	}
	if limiters.Room == nil {
		limiters.Room = allowAll{}
	}
	if limiters.Typing == nil {
		limiters.Typing = allowAll{}
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	if now == nil {
		now = time.Now
	}
	return &ChatUseCase{
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		notifications: notifications,
		broadcaster:   broadcaster,
		sendLimiter:   limiters.Send,
		roomLimiter:   limiters.Room,
		typingLimiter: limiters.Typing,
		historyLimit:  historyLimit,
		now:           now,
	}
}

// SetBroadcaster swaps the realtime sink once the hub exists; the hub itself
// depends on this use case.
func (uc *ChatUseCase) SetBroadcaster(b Broadcaster) {
	uc.broadcaster = b
}

type CreateRoomInput struct {
	Type           entity.ChatRoomType
	Name           string
	ParticipantIDs []string
}

// CreateRoom adds the caller to the participants. A direct room between two
// users is unique; asking for it again returns the existing one.
func (uc *ChatUseCase) CreateRoom(ctx context.Context, callerID string, input CreateRoomInput) (*entity.ChatRoom, error) {
	if !uc.roomLimiter.Allow(callerID) {
		return nil, errors.TooManyRequests("Too many chat rooms created, slow down")
	}

	participants := uniqueIDs(append([]string{callerID}, input.ParticipantIDs...))
	if len(participants) < 2 {
		return nil, errors.Validation("A chat room needs at least one other participant")
	}

	roomType := input.Type
	if roomType == "" {
		roomType = entity.ChatRoomDirect
		if len(participants) > 2 {
			roomType = entity.ChatRoomGroup
		}
	}

	now := uc.now()
	room := &entity.ChatRoom{
		Type:           roomType,
		Name:           strings.TrimSpace(input.Name),
		ParticipantIDs: participants,
		CreatedBy:      callerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	switch roomType {
	case entity.ChatRoomDirect:
		if len(participants) != 2 {
			return nil, errors.Validation("A direct chat has exactly two participants")
		}
		room.ID = entity.DirectRoomID(participants[0], participants[1])
	case entity.ChatRoomGroup:
		room.ID = uuid.New().String()
	default:
		return nil, errors.Validation("Invalid chat room type")
	}

	users, err := uc.userRepo.GetMany(ctx, participants)
	if err != nil {
		return nil, err
	}
	for _, id := range participants {
		if _, ok := users[id]; !ok {
			return nil, errors.NotFound("User "+id, nil)
		}
	}

	stored, _, err := uc.chatRepo.CreateRoom(ctx, room)
	if err != nil {
		logger.Error("CreateRoom Error: caller=%s: %v", callerID, err)
		return nil, err
	}
	return stored, nil
}

// ListRooms returns the caller's rooms, most recently active first.
func (uc *ChatUseCase) ListRooms(ctx context.Context, callerID string) ([]*entity.RoomSummary, error) {
	memberships, err := uc.chatRepo.ListMemberships(ctx, callerID)
	if err != nil {
		logger.Error("ListRooms Error: caller=%s: %v", callerID, err)
		return nil, err
	}

	byRoom := make(map[string]*entity.UserChatRoom, len(memberships))
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		byRoom[m.ChatRoomID] = m
		ids = append(ids, m.ChatRoomID)
	}
	rooms, err := uc.chatRepo.GetRooms(ctx, ids)
	if err != nil {
		return nil, err
	}

	var userIDs []string
	for _, room := range rooms {
		userIDs = append(userIDs, room.ParticipantIDs...)
	}
	users, err := uc.userRepo.GetMany(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, err
	}

	out := make([]*entity.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		m := byRoom[room.ID]
		summary := &entity.RoomSummary{
			ChatRoom:    room,
			UnreadCount: m.UnreadCount,
			LastReadAt:  m.LastReadAt,
			IsAdmin:     m.IsAdmin,
		}
		for _, id := range room.ParticipantIDs {
			if u, ok := users[id]; ok {
				summary.Participants = append(summary.Participants, u.Summary())
			}
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (uc *ChatUseCase) requireParticipant(ctx context.Context, callerID, roomID string) (*entity.ChatRoom, error) {
	room, err := uc.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(callerID) {
		return nil, errors.Forbidden("Not a participant of this chat room", nil)
	}
	return room, nil
}

// ListMessages returns room history in chronological order. Reading marks
// everything the other participants sent as read and clears the caller's
// unread counter.
func (uc *ChatUseCase) ListMessages(ctx context.Context, callerID, roomID string, before *time.Time, limit int) ([]*entity.ChatMessage, error) {
	if _, err := uc.requireParticipant(ctx, callerID, roomID); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = uc.historyLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	messages, err := uc.chatRepo.ListMessages(ctx, roomID, before, limit)
	if err != nil {
		logger.Error("ListMessages Error: room=%s: %v", roomID, err)
		return nil, err
	}

	now := uc.now()
	if err := uc.chatRepo.MarkRoomRead(ctx, roomID, callerID, now); err != nil {
		logger.Error("ListMessages MarkRoomRead Error: room=%s: %v", roomID, err)
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	for _, m := range messages {
		if m.SenderID != callerID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &now
		}
	}
	return messages, nil
}

type SendMessageInput struct {
	ChatRoomID string
	Content    string
	Type       entity.MessageType
	FileURL    string
	FileName   string
	FileType   string
}

// SendMessage persists the message, bumps every other participant's unread
// counter, pushes it to connected participants and leaves a notification for
// the rest.
func (uc *ChatUseCase) SendMessage(ctx context.Context, callerID string, input SendMessageInput) (*entity.ChatMessage, error) {
	if !uc.sendLimiter.Allow(callerID) {
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}
	if input.ChatRoomID == "" {
		return nil, errors.Validation("chatRoomId is required")
	}
	if input.Type == "" {
		input.Type = entity.MessageText
	}
	if !input.Type.Valid() {
		return nil, errors.Validation("Invalid message type")
	}
	if strings.TrimSpace(input.Content) == "" && input.FileURL == "" {
		return nil, errors.Validation("Message content is required")
	}

	msg := &entity.ChatMessage{
		ID:         uuid.New().String(),
		ChatRoomID: input.ChatRoomID,
		SenderID:   callerID,
		Content:    input.Content,
		Type:       input.Type,
		FileURL:    input.FileURL,
		FileName:   input.FileName,
		FileType:   input.FileType,
		CreatedAt:  uc.now(),
	}

	room, err := uc.chatRepo.SendMessage(ctx, msg)
	if err != nil {
		if errors.StatusOf(err) >= 500 {
			logger.Error("SendMessage Error: room=%s sender=%s: %v", input.ChatRoomID, callerID, err)
		}
		return nil, err
	}

	uc.broadcaster.Publish(room.ParticipantIDs, EventMessage, NewMessageEvent(msg))

	senderName := callerID
	if sender, err := uc.userRepo.GetByID(ctx, callerID); err == nil {
		senderName = sender.Name
	}
	for _, userID := range room.ParticipantIDs {
		if userID == callerID || uc.broadcaster.IsOnline(ctx, userID) {
			continue
		}
		uc.notifications.Notify(ctx, &entity.Notification{
			UserID:   userID,
			SenderID: callerID,
			Type:     entity.NotificationChatMessage,
			Title:    "New message from " + senderName,
			Content:  truncate(msg.Content, notificationPreviewLen),
			Data:     map[string]string{"chatRoomId": room.ID, "messageId": msg.ID},
		})
	}

	return msg, nil
}

// MessageEvent is the realtime shape of a chat message.
type MessageEvent struct {
	ID         string             `json:"id"`
	ChatRoomID string             `json:"chatRoomId"`
	SenderID   string             `json:"senderId"`
	Content    string             `json:"content"`
	Type       entity.MessageType `json:"type"`
	FileURL    string             `json:"fileUrl,omitempty"`
	FileName   string             `json:"fileName,omitempty"`
	FileType   string             `json:"fileType,omitempty"`
	IsRead     bool               `json:"isRead"`
	CreatedAt  time.Time          `json:"createdAt"`
}

func NewMessageEvent(m *entity.ChatMessage) MessageEvent {
	return MessageEvent{
		ID:         m.ID,
		ChatRoomID: m.ChatRoomID,
		SenderID:   m.SenderID,
		Content:    m.Content,
		Type:       m.Type,
		FileURL:    m.FileURL,
		FileName:   m.FileName,
		FileType:   m.FileType,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

type ReadReceipt struct {
	MessageID  string    `json:"messageId"`
	ChatRoomID string    `json:"chatRoomId"`
	UserID     string    `json:"userId"`
	ReadAt     time.Time `json:"readAt"`
}

// MarkRead marks one message read and clears the caller's unread counter. It
// is idempotent.
func (uc *ChatUseCase) MarkRead(ctx context.Context, callerID, messageID string) (*entity.ChatMessage, error) {
	found, err := uc.chatRepo.FindMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	room, err := uc.requireParticipant(ctx, callerID, found.ChatRoomID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	msg, err := uc.chatRepo.MarkMessageRead(ctx, room.ID, messageID, callerID, now)
	if err != nil {
		logger.Error("MarkRead Error: message=%s: %v", messageID, err)
		return nil, err
	}

	receipt := ReadReceipt{MessageID: msg.ID, ChatRoomID: room.ID, UserID: callerID, ReadAt: now}
	uc.broadcaster.Publish(others(room.ParticipantIDs, callerID), EventMessageRead, receipt)
	return msg, nil
}

// DeleteMessage removes a message the caller sent.
func (uc *ChatUseCase) DeleteMessage(ctx context.Context, callerID, messageID string) error {
	msg, err := uc.chatRepo.FindMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		return errors.Forbidden("You can only delete your own messages", nil)
	}

	room, err := uc.chatRepo.DeleteMessage(ctx, msg.ChatRoomID, messageID)
	if err != nil {
		logger.Error("DeleteMessage Error: message=%s: %v", messageID, err)
		return err
	}
	uc.broadcaster.Publish(room.ParticipantIDs, EventDeleted, map[string]string{
		"messageId":  messageID,
		"chatRoomId": room.ID,
	})
	return nil
}

type PresenceEvent struct {
	UserID   string    `json:"userId"`
	LastSeen time.Time `json:"lastSeen"`
}

// Connect marks the user online and announces it to everyone sharing a room.
// It returns the ids of the rooms the connection joins.
func (uc *ChatUseCase) Connect(ctx context.Context, userID string) ([]string, error) {
	return uc.setPresence(ctx, userID, entity.OnlineStatusOnline, EventUserOnline)
}

func (uc *ChatUseCase) Disconnect(ctx context.Context, userID string) error {
	_, err := uc.setPresence(ctx, userID, entity.OnlineStatusOffline, EventUserOffline)
	return err
}

func (uc *ChatUseCase) setPresence(ctx context.Context, userID, status, event string) ([]string, error) {
	now := uc.now()
	if err := uc.userRepo.SetPresence(ctx, userID, status, now); err != nil {
		logger.Error("SetPresence Error: user=%s status=%s: %v", userID, status, err)
		return nil, err
	}

	memberships, err := uc.chatRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	roomIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		roomIDs = append(roomIDs, m.ChatRoomID)
	}
	rooms, err := uc.chatRepo.GetRooms(ctx, roomIDs)
	if err != nil {
		return nil, err
	}

	var peers []string
	for _, room := range rooms {
		peers = append(peers, others(room.ParticipantIDs, userID)...)
	}
	uc.broadcaster.Publish(uniqueIDs(peers), event, PresenceEvent{UserID: userID, LastSeen: now})
	return roomIDs, nil
}

type TypingEvent struct {
	ChatRoomID string `json:"chatRoomId"`
	UserID     string `json:"userId"`
	IsTyping   bool   `json:"isTyping"`
}

// Typing relays a typing indicator to the other participants. Nothing is stored.
func (uc *ChatUseCase) Typing(ctx context.Context, callerID, roomID string, isTyping bool) error {
	if !uc.typingLimiter.Allow(callerID) {
		return nil
	}
	room, err := uc.requireParticipant(ctx, callerID, roomID)
	if err != nil {
		return err
	}
	uc.broadcaster.Publish(others(room.ParticipantIDs, callerID), EventUserTyping, TypingEvent{
		ChatRoomID: roomID,
		UserID:     callerID,
		IsTyping:   isTyping,
	})
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func others(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
