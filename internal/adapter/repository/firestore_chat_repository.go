package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) roomRef(id string) *firestore.DocumentRef {
	return r.client.Collection(chatRoomsCollection).Doc(id)
}

func (r *firestoreChatRepository) membershipRef(userID, roomID string) *firestore.DocumentRef {
	return r.client.Collection(userChatRoomsCollection).Doc(entity.MembershipID(userID, roomID))
}

func (r *firestoreChatRepository) messages(roomID string) *firestore.CollectionRef {
	return r.roomRef(roomID).Collection(messagesCollection)
}

func (r *firestoreChatRepository) CreateRoom(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error) {
	ref := r.roomRef(room.ID)

	stored, created := room, true
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stored, created = room, true

		doc, err := tx.Get(ref)
		if err == nil {
			created = false
			stored, err = decodeOne[entity.ChatRoom](doc)
			return err
		}
		if !notFound(err) {
			return err
		}

		if err := tx.Create(ref, room); err != nil {
			return err
		}
		for _, userID := range room.ParticipantIDs {
			membership := &entity.UserChatRoom{
				ID:         entity.MembershipID(userID, room.ID),
				UserID:     userID,
				ChatRoomID: room.ID,
				IsAdmin:    userID == room.CreatedBy,
				JoinedAt:   room.CreatedAt,
			}
			if err := tx.Set(r.membershipRef(userID, room.ID), membership); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, translate(err, "Chat room", "create chat room")
	}
	return stored, created, nil
}

func (r *firestoreChatRepository) GetRoom(ctx context.Context, id string) (*entity.ChatRoom, error) {
	doc, err := r.roomRef(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Chat room", "get chat room")
	}
	room, err := decodeOne[entity.ChatRoom](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse chat room", err)
	}
	return room, nil
}

func (r *firestoreChatRepository) GetRooms(ctx context.Context, ids []string) ([]*entity.ChatRoom, error) {
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.roomRef(id))
	}
	rooms, err := getAll[entity.ChatRoom](ctx, r.client, refs)
	if err != nil {
		return nil, errors.Internal("Failed to get chat rooms", err)
	}
	return rooms, nil
}

func (r *firestoreChatRepository) GetMembership(ctx context.Context, userID, roomID string) (*entity.UserChatRoom, error) {
	doc, err := r.membershipRef(userID, roomID).Get(ctx)
	if err != nil {
		return nil, translate(err, "Chat membership", "get chat membership")
	}
	m, err := decodeOne[entity.UserChatRoom](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse chat membership", err)
	}
	return m, nil
}

func (r *firestoreChatRepository) ListMemberships(ctx context.Context, userID string) ([]*entity.UserChatRoom, error) {
	ms, err := decodeAll[entity.UserChatRoom](r.client.Collection(userChatRoomsCollection).
		Where("userId", "==", userID).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list chat memberships", err)
	}
	return ms, nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, roomID string, before *time.Time, limit int) ([]*entity.ChatMessage, error) {
	q := r.messages(roomID).OrderBy("createdAt", firestore.Desc)
	if before != nil {
		q = q.Where("createdAt", "<", *before)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	msgs, err := decodeAll[entity.ChatMessage](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	return msgs, nil
}

func (r *firestoreChatRepository) FindMessage(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	iter := r.client.CollectionGroup(messagesCollection).Where("id", "==", messageID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Message", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to find message", err)
	}
	msg, err := decodeOne[entity.ChatMessage](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse message", err)
	}
	return msg, nil
}

func (r *firestoreChatRepository) SendMessage(ctx context.Context, msg *entity.ChatMessage) (*entity.ChatRoom, error) {
	ref := r.roomRef(msg.ChatRoomID)

	var room *entity.ChatRoom
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if room, err = decodeOne[entity.ChatRoom](doc); err != nil {
			return err
		}
		if !room.HasParticipant(msg.SenderID) {
			return errors.Forbidden("Not a participant of this chat room", nil)
		}

		if err := tx.Create(r.messages(room.ID).Doc(msg.ID), msg); err != nil {
			return err
		}
		room.LastMessageID = msg.ID
		room.LastMessage = msg.Content
		room.UpdatedAt = msg.CreatedAt
		if err := tx.Update(ref, []firestore.Update{
			{Path: "lastMessageId", Value: room.LastMessageID},
			{Path: "lastMessage", Value: room.LastMessage},
			{Path: "updatedAt", Value: room.UpdatedAt},
		}); err != nil {
			return err
		}
		for _, userID := range room.ParticipantIDs {
			if userID == msg.SenderID {
				continue
			}
			if err := tx.Set(r.membershipRef(userID, room.ID), map[string]interface{}{
				"unreadCount": firestore.Increment(1),
			}, firestore.MergeAll); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "Chat room", "send message")
	}
	return room, nil
}

func (r *firestoreChatRepository) resetUnread(tx *firestore.Transaction, roomID, readerID string, at time.Time) error {
	return tx.Set(r.membershipRef(readerID, roomID), map[string]interface{}{
		"unreadCount": 0,
		"lastReadAt":  at,
	}, firestore.MergeAll)
}

func (r *firestoreChatRepository) MarkRoomRead(ctx context.Context, roomID, readerID string, at time.Time) error {
	unread := r.messages(roomID).Where("isRead", "==", false)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(unread).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			msg, err := decodeOne[entity.ChatMessage](doc)
			if err != nil {
				return err
			}
			if msg.SenderID == readerID {
				continue
			}
			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "isRead", Value: true},
				{Path: "readAt", Value: at},
			}); err != nil {
				return err
			}
		}
		return r.resetUnread(tx, roomID, readerID, at)
	})
	return translate(err, "Chat room", "mark chat room read")
}

func (r *firestoreChatRepository) MarkMessageRead(ctx context.Context, roomID, messageID, readerID string, at time.Time) (*entity.ChatMessage, error) {
	ref := r.messages(roomID).Doc(messageID)

	var msg *entity.ChatMessage
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if notFound(err) {
				return errors.NotFound("Message", err)
			}
			return err
		}
		if msg, err = decodeOne[entity.ChatMessage](doc); err != nil {
			return err
		}
		if !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &at
			if err := tx.Update(ref, []firestore.Update{
				{Path: "isRead", Value: true},
				{Path: "readAt", Value: at},
			}); err != nil {
				return err
			}
		}
		return r.resetUnread(tx, roomID, readerID, at)
	})
	if err != nil {
		return nil, translate(err, "Message", "mark message read")
	}
	return msg, nil
}

func (r *firestoreChatRepository) DeleteMessage(ctx context.Context, roomID, messageID string) (*entity.ChatRoom, error) {
	ref := r.roomRef(roomID)
	msgRef := r.messages(roomID).Doc(messageID)
	latest := r.messages(roomID).OrderBy("createdAt", firestore.Desc).Limit(2)

	var room *entity.ChatRoom
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if room, err = decodeOne[entity.ChatRoom](doc); err != nil {
			return err
		}
		if _, err := tx.Get(msgRef); err != nil {
			if notFound(err) {
				return errors.NotFound("Message", err)
			}
			return err
		}

		var next *entity.ChatMessage
		if room.LastMessageID == messageID {
			docs, err := tx.Documents(latest).GetAll()
			if err != nil {
				return err
			}
			for _, d := range docs {
				if d.Ref.ID == messageID {
					continue
				}
				if next, err = decodeOne[entity.ChatMessage](d); err != nil {
					return err
				}
				break
			}
		}

		if err := tx.Delete(msgRef); err != nil {
			return err
		}
		if room.LastMessageID != messageID {
			return nil
		}
		room.LastMessageID, room.LastMessage = "", ""
		if next != nil {
			room.LastMessageID, room.LastMessage = next.ID, next.Content
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "lastMessageId", Value: room.LastMessageID},
			{Path: "lastMessage", Value: room.LastMessage},
		})
	})
	if err != nil {
		return nil, translate(err, "Chat room", "delete message")
	}
	return room, nil
}
