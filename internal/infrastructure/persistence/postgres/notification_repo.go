package postgres

import (
	"context"
	"fmt"

	"github.com/shyrus-os/study-hub/internal/domain/notification"
	"github.com/shyrus-os/study-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// List returns all notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context) ([]notification.Notification, error) {
	query := `
		SELECT id, message, category, read, created_at
		FROM notifications
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var (
			n        notification.Notification
			category string
		)
		if err := rows.Scan(&n.ID, &n.Message, &category, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Category = notification.Category(category)
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// Append stores a new notification.
func (r *NotificationRepository) Append(ctx context.Context, n notification.Notification) error {
	query := `
		INSERT INTO notifications (id, message, category, read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query,
		n.ID,
		n.Message,
		string(n.Category),
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// Dismiss removes a notification by ID.
func (r *NotificationRepository) Dismiss(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotificationNotFound
	}
	return nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotificationNotFound
	}
	return nil
}
