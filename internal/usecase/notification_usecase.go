package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/logger"
)

const EventNotification = "notification"

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	broadcaster      Broadcaster
	now              Clock
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	now Clock,
) *NotificationUseCase {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broadcaster:      broadcaster,
		now:              now,
	}
}

// SetBroadcaster replaces the realtime sink after the websocket hub is built.
func (uc *NotificationUseCase) SetBroadcaster(b Broadcaster) {
	uc.broadcaster = b
}

// Notify stores n and pushes it to the recipient if connected. Delivery is
// best effort: failures are logged and never fail the calling operation.
func (uc *NotificationUseCase) Notify(ctx context.Context, n *entity.Notification) *entity.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = uc.now()
	}

	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		logger.Error("Notify Error: user=%s type=%s: %v", n.UserID, n.Type, err)
		return nil
	}
	uc.broadcaster.Publish([]string{n.UserID}, EventNotification, n)
	return n
}

// NotifyAdmins sends a copy of template to every admin and returns how many were stored.
func (uc *NotificationUseCase) NotifyAdmins(ctx context.Context, template *entity.Notification) int {
	admins, err := uc.userRepo.ListByRole(ctx, entity.RoleAdmin)
	if err != nil {
		logger.Error("NotifyAdmins Error: %v", err)
		return 0
	}
	if len(admins) == 0 {
		logger.Warn("NotifyAdmins: no admin users to notify for %s", template.Type)
		return 0
	}

	sent := 0
	for _, admin := range admins {
		n := *template
		n.ID = ""
		n.UserID = admin.ID
		if uc.Notify(ctx, &n) != nil {
			sent++
		}
	}
	return sent
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entity.Notification, int64, error) {
	items, err := uc.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		logger.Error("ListNotifications Error: user=%s: %v", userID, err)
		return nil, 0, err
	}
	unread, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) (*entity.Notification, error) {
	return uc.notificationRepo.MarkRead(ctx, userID, id, uc.now())
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := uc.notificationRepo.MarkAllRead(ctx, userID, uc.now())
	if err != nil {
		logger.Error("MarkAllNotificationsRead Error: user=%s: %v", userID, err)
	}
	return n, err
}
