package notification

import (
	"context"
	"strings"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/logger"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
)

// Publisher pushes a committed notification to its owner's live connections.
// Delivery is best effort; the stored feed stays authoritative.
type Publisher interface {
	Publish(userID string, n *domain.Notification)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, *domain.Notification) {}

// OrNop returns p, or a publisher that drops everything when p is nil.
func OrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        Publisher
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher Publisher,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        OrNop(publisher),
	}
}

// ListResponse is a user's feed, newest first.
type ListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// SystemNotificationRequest is an operator-originated message for one user.
type SystemNotificationRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required,max=1000"`
}

type MarkAllReadResponse struct {
	Updated     int `json:"updated"`
	UnreadCount int `json:"unread_count"`
}

func (uc *NotificationUseCase) List(ctx context.Context, actor domain.Actor, unreadOnly bool) (*ListResponse, error) {
	notifications, err := uc.notificationRepo.ListByUser(ctx, actor.UserID, unreadOnly)
	if err != nil {
		return nil, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the actor's notifications read. Marking a read
// notification again returns it unchanged.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	n, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	return uc.notificationRepo.MarkRead(ctx, id)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, actor domain.Actor) (*MarkAllReadResponse, error) {
	updated, err := uc.notificationRepo.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	unread, err := uc.notificationRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "notifications marked read", "updated", updated)
	return &MarkAllReadResponse{Updated: updated, UnreadCount: unread}, nil
}

func (uc *NotificationUseCase) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uc.owned(ctx, actor, id); err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, id)
}

// PublishSystem stores a system notification for the target user and pushes it.
func (uc *NotificationUseCase) PublishSystem(ctx context.Context, actor domain.Actor, req *SystemNotificationRequest) (*domain.Notification, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAdminOnly
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, domain.ErrEmptyNotificationText
	}

	if _, err := uc.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	n := &domain.Notification{
		UserID:  req.UserID,
		Type:    domain.NotificationSystem,
		Message: message,
	}
	if err := uc.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	uc.publisher.Publish(n.UserID, n)
	logger.CtxInfo(ctx, "system notification published", "notification_id", n.ID, "recipient_id", n.UserID)
	return n, nil
}

func (uc *NotificationUseCase) owned(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.UserID {
		return nil, domain.ErrNotNotificationOwner
	}
	return n, nil
}
