package memory

import (
	"context"
	"sort"
	"time"

	"greia/internal/domain/entity"
	"greia/pkg/errors"
)

type chatRepo struct{ s *Store }

func (r *chatRepo) CreateRoom(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.rooms[room.ID]; ok {
		return clone(existing), false, nil
	}

	r.s.rooms[room.ID] = clone(room)
	r.s.messages[room.ID] = make(map[string]*entity.ChatMessage)
	for _, userID := range room.ParticipantIDs {
		id := entity.MembershipID(userID, room.ID)
		r.s.memberships[id] = &entity.UserChatRoom{
			ID:         id,
			UserID:     userID,
			ChatRoomID: room.ID,
			IsAdmin:    userID == room.CreatedBy,
			JoinedAt:   room.CreatedAt,
		}
	}
	return clone(room), true, nil
}

func (r *chatRepo) GetRoom(ctx context.Context, id string) (*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[id]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	return clone(room), nil
}

func (r *chatRepo) GetRooms(ctx context.Context, ids []string) ([]*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.ChatRoom
	for _, id := range ids {
		if room, ok := r.s.rooms[id]; ok {
			out = append(out, clone(room))
		}
	}
	return out, nil
}

func (r *chatRepo) GetMembership(ctx context.Context, userID, roomID string) (*entity.UserChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.memberships[entity.MembershipID(userID, roomID)]
	if !ok {
		return nil, errors.NotFound("Membership", nil)
	}
	return clone(m), nil
}

func (r *chatRepo) ListMemberships(ctx context.Context, userID string) ([]*entity.UserChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.UserChatRoom
	for _, m := range r.s.memberships {
		if m.UserID == userID {
			out = append(out, clone(m))
		}
	}
	return out, nil
}

func (r *chatRepo) ListMessages(ctx context.Context, roomID string, before *time.Time, limit int) ([]*entity.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.ChatMessage
	for _, m := range r.s.messages[roomID] {
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, clone(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *chatRepo) FindMessage(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, msgs := range r.s.messages {
		if m, ok := msgs[messageID]; ok {
			return clone(m), nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *chatRepo) SendMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[msg.ChatRoomID]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	if !room.HasParticipant(msg.SenderID) {
		return nil, errors.Forbidden("Not a participant of this chat room", nil)
	}

	r.s.messages[room.ID][msg.ID] = clone(msg)
	room.LastMessageID = msg.ID
	room.LastMessage = msg.Content
	room.UpdatedAt = msg.CreatedAt
	for _, userID := range room.ParticipantIDs {
		if userID == msg.SenderID {
			continue
		}
		if m, ok := r.s.memberships[entity.MembershipID(userID, room.ID)]; ok {
			m.UnreadCount++
		}
	}
	return clone(room), nil
}

func (r *chatRepo) MarkRoomRead(ctx context.Context, roomID, readerID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.messages[roomID] {
		if m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &at
		}
	}
	r.resetUnread(readerID, roomID, at)
	return nil
}

func (r *chatRepo) MarkMessageRead(ctx context.Context, roomID, messageID, readerID string, at time.Time) (*entity.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[roomID][messageID]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	if !m.IsRead {
		m.IsRead = true
		m.ReadAt = &at
	}
	r.resetUnread(readerID, roomID, at)
	return clone(m), nil
}

// resetUnread must be called with the store lock held.
func (r *chatRepo) resetUnread(userID, roomID string, at time.Time) {
	if m, ok := r.s.memberships[entity.MembershipID(userID, roomID)]; ok {
		m.UnreadCount = 0
		m.LastReadAt = &at
	}
}

func (r *chatRepo) DeleteMessage(ctx context.Context, roomID, messageID string) (*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	room, ok := r.s.rooms[roomID]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	msgs := r.s.messages[roomID]
	if _, ok := msgs[messageID]; !ok {
		return nil, errors.NotFound("Message", nil)
	}
	delete(msgs, messageID)

	if room.LastMessageID == messageID {
		room.LastMessageID, room.LastMessage = "", ""
		var latest *entity.ChatMessage
		for _, m := range msgs {
			if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
				latest = m
			}
		}
		if latest != nil {
			room.LastMessageID = latest.ID
			room.LastMessage = latest.Content
		}
	}
	return clone(room), nil
}
