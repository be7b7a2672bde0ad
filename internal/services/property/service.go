package property

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	miniocore "rentkenya/internal/lib/minio/core"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
)

type PropertyRepository interface {
	CreateProperty(ctx context.Context, property domain.Property) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
	UpdateProperty(ctx context.Context, propertyID uuid.UUID, update domain.PropertyFilter) error
	ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.PaginatedResult[domain.Property], error)
	ListAvailableExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Property, error)
	IncrementViewCount(ctx context.Context, propertyID uuid.UUID, viewerID *uuid.UUID) error
}

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotOwner         = errors.New("property belongs to another landlord")
	ErrStorageDisabled  = errors.New("image storage is not configured")
)

type Service struct {
	log     *slog.Logger
	repo    PropertyRepository
	storage miniocore.Client
}

func New(log *slog.Logger, repo PropertyRepository, storage miniocore.Client) *Service {
	return &Service{
		log:     log,
		repo:    repo,
		storage: storage,
	}
}

// CreateProperty — создаёт новый объект аренды.
func (s *Service) CreateProperty(ctx context.Context, property domain.Property) (uuid.UUID, error) {
	const op = "property.Service.CreateProperty"
	log := s.log.With(slog.String("op", op), slog.String("title", property.Title))

	if err := property.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateProperty(ctx, property)
	if err != nil {
		log.Error("failed to create property", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("property created", slog.String("property_id", id.String()))
	return id, nil
}

// GetProperty — получает объект по ID и фоном фиксирует просмотр.
// Счётчик просмотров инкрементируется атомарной процедурой БД; отказ
// инкремента не влияет на ответ.
func (s *Service) GetProperty(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (domain.Property, error) {
	const op = "property.Service.GetProperty"

	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return domain.Property{}, fmt.Errorf("%s: %w", op, ErrPropertyNotFound)
		}
		s.log.Error("failed to get property", sl.Err(err))
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		if err := s.repo.IncrementViewCount(context.Background(), id, viewerID); err != nil {
			s.log.Warn("failed to record view",
				slog.String("property_id", id.String()), sl.Err(err))
		}
	}()

	return property, nil
}

// UpdateProperty — частичное обновление объекта. Обновлять может только владелец.
func (s *Service) UpdateProperty(ctx context.Context, propertyID, landlordID uuid.UUID, update domain.PropertyFilter) (domain.Property, error) {
	const op = "property.Service.UpdateProperty"

	current, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return domain.Property{}, fmt.Errorf("%s: %w", op, ErrPropertyNotFound)
		}
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	if current.LandlordID != landlordID {
		s.log.Warn("update rejected: not the owner",
			slog.String("property_id", propertyID.String()),
			slog.String("landlord_id", landlordID.String()))
		return domain.Property{}, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	if err := s.repo.UpdateProperty(ctx, propertyID, update); err != nil {
		if errors.Is(err, repository.ErrNoFieldsToUpdate) {
			return current, nil
		}
		s.log.Error("failed to update property", sl.Err(err))
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return domain.Property{}, fmt.Errorf("%s: failed to fetch updated property: %w", op, err)
	}

	return updated, nil
}

// ListProperties — выборка объектов по фильтру с курсорной пагинацией.
func (s *Service) ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.PaginatedResult[domain.Property], error) {
	const op = "property.Service.ListProperties"

	result, err := s.repo.ListProperties(ctx, filter)
	if err != nil {
		s.log.Error("failed to list properties", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ListByLandlord — объекты конкретного арендодателя.
func (s *Service) ListByLandlord(ctx context.Context, landlordID uuid.UUID, pagination *domain.PaginationParams) (*domain.PaginatedResult[domain.Property], error) {
	const op = "property.Service.ListByLandlord"

	filter := domain.PropertyFilter{
		LandlordID: &landlordID,
		Pagination: pagination,
	}

	result, err := s.repo.ListProperties(ctx, filter)
	if err != nil {
		s.log.Error("failed to list landlord properties", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ListAvailableExcluding — доступные объекты без перечисленных ID.
// Используется для подбора кандидатов рекомендаций.
func (s *Service) ListAvailableExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Property, error) {
	const op = "property.Service.ListAvailableExcluding"

	properties, err := s.repo.ListAvailableExcluding(ctx, exclude, limit)
	if err != nil {
		s.log.Error("failed to list available properties", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return properties, nil
}

// AddImage — загружает изображение в объектное хранилище и добавляет URL
// к объекту. Загружать может только владелец.
func (s *Service) AddImage(ctx context.Context, propertyID, landlordID uuid.UUID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	const op = "property.Service.AddImage"
	log := s.log.With(slog.String("op", op), slog.String("property_id", propertyID.String()))

	if !s.storage.IsEnabled() {
		return "", fmt.Errorf("%s: %w", op, ErrStorageDisabled)
	}

	current, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrPropertyNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if current.LandlordID != landlordID {
		return "", fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	url, err := s.storage.UploadPropertyImage(ctx, propertyID, filename, r, size, contentType)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	images := append(current.Images, url)
	if err := s.repo.UpdateProperty(ctx, propertyID, domain.PropertyFilter{Images: images}); err != nil {
		log.Error("failed to attach image url", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image uploaded", slog.String("url", url))
	return url, nil
}
