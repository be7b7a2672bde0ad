package notification_repository

import (
	"context"
	"fmt"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, log *slog.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, log: log}
}

// Create — вставляет уведомление.
func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (uuid.UUID, error) {
	const op = "NotificationRepository.Create"

	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type, related_property_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING notification_id
	`, n.UserID, n.Title, n.Message, n.Type, n.RelatedPropertyID).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// ListForUser — уведомления пользователя, новые первыми.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	const op = "NotificationRepository.ListForUser"

	query := `
		SELECT notification_id, user_id, title, message, type, related_property_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.RelatedPropertyID,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// UnreadCount — число непрочитанных уведомлений.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "NotificationRepository.UnreadCount"

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// MarkRead помечает уведомление прочитанным.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	const op = "NotificationRepository.MarkRead"

	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotificationNotFound)
	}

	return nil
}
