package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.client.Collection(notificationsCollection).Doc(n.ID).Set(ctx, n)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	q := r.client.Collection(notificationsCollection).Where("userId", "==", userID)
	if unreadOnly {
		q = q.Where("isRead", "==", false)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	items, err := decodeAll[entity.Notification](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list notifications", err)
	}
	return items, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) (*entity.Notification, error) {
	ref := r.client.Collection(notificationsCollection).Doc(id)

	var n *entity.Notification
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if n, err = decodeOne[entity.Notification](doc); err != nil {
			return err
		}
		// Someone else's notification is indistinguishable from a missing one.
		if n.UserID != userID {
			return errors.NotFound("Notification", nil)
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true
		n.ReadAt = &at
		return tx.Update(ref, []firestore.Update{
			{Path: "isRead", Value: true},
			{Path: "readAt", Value: at},
		})
	})
	if err != nil {
		return nil, translate(err, "Notification", "mark notification read")
	}
	return n, nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	docs, err := r.client.Collection(notificationsCollection).
		Where("userId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query notifications", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
			{Path: "readAt", Value: at},
		})
		if err != nil {
			bw.End()
			return 0, errors.Internal("Failed to queue notification update", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	updated := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			logger.Error("Failed to mark notification read: %v", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := countOf(ctx, r.client.Collection(notificationsCollection).
		Where("userId", "==", userID).
		Where("isRead", "==", false))
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return n, nil
}
