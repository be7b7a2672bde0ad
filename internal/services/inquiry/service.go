package inquiry

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

type InquiryRepository interface {
	CreateWithFanout(ctx context.Context, inquiry domain.Inquiry, notification domain.Notification) (uuid.UUID, error)
	ListForReceiver(ctx context.Context, receiverID uuid.UUID) ([]domain.Inquiry, error)
	ListForSender(ctx context.Context, senderID uuid.UUID) ([]domain.Inquiry, error)
	MarkRead(ctx context.Context, inquiryID, receiverID uuid.UUID) error
	UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error)
}

type PropertyProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
}

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInquiryNotFound  = errors.New("inquiry not found")
	ErrOwnProperty      = errors.New("cannot send an inquiry on your own property")
)

type Service struct {
	log   *slog.Logger
	repo  InquiryRepository
	props PropertyProvider
}

func New(log *slog.Logger, repo InquiryRepository, props PropertyProvider) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		props: props,
	}
}

// CreateInquiry — создаёт обращение по объекту. Получатель определяется
// по объекту и не принимается извне. Запись обращения, инкремент счётчика
// и уведомление арендодателю выполняются одной транзакцией: либо
// сохраняется всё, либо ничего.
func (s *Service) CreateInquiry(ctx context.Context, inquiry domain.Inquiry) (uuid.UUID, error) {
	const op = "inquiry.Service.CreateInquiry"
	log := s.log.With(slog.String("op", op),
		slog.String("property_id", inquiry.PropertyID.String()),
		slog.String("sender_id", inquiry.SenderID.String()))

	if err := inquiry.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	property, err := s.props.GetByID(ctx, inquiry.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrPropertyNotFound)
		}
		log.Error("failed to get property", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	inquiry.ReceiverID = property.LandlordID
	if inquiry.SenderID == inquiry.ReceiverID {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrOwnProperty)
	}

	notification := domain.Notification{
		UserID:            property.LandlordID,
		Title:             "New Property Inquiry",
		Message:           fmt.Sprintf("You have a new inquiry for %q", property.Title),
		Type:              "info",
		RelatedPropertyID: &property.ID,
	}

	id, err := s.repo.CreateWithFanout(ctx, inquiry, notification)
	if err != nil {
		log.Error("failed to create inquiry", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("inquiry created", slog.String("inquiry_id", id.String()))
	return id, nil
}

// ListInbox — обращения, адресованные пользователю, новые первыми.
func (s *Service) ListInbox(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error) {
	const op = "inquiry.Service.ListInbox"

	inquiries, err := s.repo.ListForReceiver(ctx, userID)
	if err != nil {
		s.log.Error("failed to list inbox", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inquiries, nil
}

// ListSent — обращения, отправленные пользователем.
func (s *Service) ListSent(ctx context.Context, userID uuid.UUID) ([]domain.Inquiry, error) {
	const op = "inquiry.Service.ListSent"

	inquiries, err := s.repo.ListForSender(ctx, userID)
	if err != nil {
		s.log.Error("failed to list sent inquiries", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inquiries, nil
}

// MarkRead — помечает обращение прочитанным. Только получатель.
func (s *Service) MarkRead(ctx context.Context, inquiryID, userID uuid.UUID) error {
	const op = "inquiry.Service.MarkRead"

	if err := s.repo.MarkRead(ctx, inquiryID, userID); err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInquiryNotFound)
		}
		s.log.Error("failed to mark inquiry read", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnreadCount — число непрочитанных обращений пользователя.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "inquiry.Service.UnreadCount"

	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		s.log.Error("failed to count unread inquiries", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
