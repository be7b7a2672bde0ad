package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (uuid.UUID, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
}

var ErrNotificationNotFound = errors.New("notification not found")

type Service struct {
	log  *slog.Logger
	repo NotificationRepository
}

func New(log *slog.Logger, repo NotificationRepository) *Service {
	return &Service{log: log, repo: repo}
}

// Notify — создаёт уведомление вне транзакционных сценариев.
func (s *Service) Notify(ctx context.Context, n domain.Notification) (uuid.UUID, error) {
	const op = "notification.Service.Notify"

	id, err := s.repo.Create(ctx, n)
	if err != nil {
		s.log.Error("failed to create notification", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// List — уведомления пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	const op = "notification.Service.List"

	notifications, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list notifications", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return notifications, nil
}

// UnreadCount — число непрочитанных уведомлений.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "notification.Service.UnreadCount"

	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		s.log.Error("failed to count unread notifications", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// MarkRead — помечает уведомление прочитанным. Только владелец.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	const op = "notification.Service.MarkRead"

	if err := s.repo.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotificationNotFound)
		}
		s.log.Error("failed to mark notification read", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
