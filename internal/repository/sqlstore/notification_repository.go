package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/matrimony-backend/internal/domain"
	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `id, user_id, type, from_user_id, related_id, message, is_read, read_at, created_at`

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO notifications (id, user_id, type, from_user_id, related_id, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(ctx, r.db, query,
		n.ID, n.UserID, n.Type, n.FromUserID, n.RelatedID, n.Message, n.IsRead, n.CreatedAt,
	)
	return mapError(err)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
	if err := get(ctx, r.db, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, mapError(err)
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	notifications := []*domain.Notification{}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC`

	err := selectAll(ctx, r.db, &notifications, query, args...)
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`
	err := get(ctx, r.db, &count, query, userID, false)
	return count, mapError(err)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	query := `UPDATE notifications SET is_read = ?, read_at = COALESCE(read_at, ?) WHERE id = ?`
	rows, err := exec(ctx, r.db, query, true, time.Now().UTC(), id)
	if err != nil {
		return nil, mapError(err)
	}
	if rows == 0 {
		return nil, domain.ErrNotificationNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	query := `UPDATE notifications SET is_read = ?, read_at = ? WHERE user_id = ? AND is_read = ?`
	rows, err := exec(ctx, r.db, query, true, time.Now().UTC(), userID, false)
	if err != nil {
		return 0, mapError(err)
	}
	return int(rows), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM notifications WHERE id = ?`
	rows, err := exec(ctx, r.db, query, id)
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
