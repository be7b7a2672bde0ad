package search

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

type SearchRepository interface {
	CreateSavedSearch(ctx context.Context, search domain.SavedSearch) (uuid.UUID, error)
	ListSavedSearches(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error)
	GetSavedSearch(ctx context.Context, searchID, userID uuid.UUID) (domain.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, searchID, userID uuid.UUID) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error)
	UpsertPreferences(ctx context.Context, prefs domain.SearchPreferences) error
}

var (
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrEmptySearchName     = errors.New("search name must not be empty")
)

type Service struct {
	log  *slog.Logger
	repo SearchRepository
}

func New(log *slog.Logger, repo SearchRepository) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// SaveSearch — сохраняет критерии поиска под именем. Критерии сериализуются
// с тегом версии, чтобы старые записи не интерпретировались молча.
func (s *Service) SaveSearch(ctx context.Context, userID uuid.UUID, name string, criteria domain.FilterCriteria) (uuid.UUID, error) {
	const op = "search.Service.SaveSearch"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	if name == "" {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrEmptySearchName)
	}

	raw, err := domain.EncodeSearchCriteria(criteria)
	if err != nil {
		log.Error("failed to encode criteria", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateSavedSearch(ctx, domain.SavedSearch{
		UserID:   userID,
		Name:     name,
		Criteria: raw,
		IsActive: true,
	})
	if err != nil {
		log.Error("failed to save search", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("search saved", slog.String("search_id", id.String()))
	return id, nil
}

// ListSavedSearches — активные сохранённые поиски пользователя.
func (s *Service) ListSavedSearches(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error) {
	const op = "search.Service.ListSavedSearches"

	searches, err := s.repo.ListSavedSearches(ctx, userID)
	if err != nil {
		s.log.Error("failed to list saved searches", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return searches, nil
}

// LoadSavedSearch — возвращает сохранённый поиск и его разобранные критерии.
// Несовпадение версии схемы критериев — это ошибка, а не тихое приведение.
func (s *Service) LoadSavedSearch(ctx context.Context, searchID, userID uuid.UUID) (domain.SavedSearch, domain.FilterCriteria, error) {
	const op = "search.Service.LoadSavedSearch"

	saved, err := s.repo.GetSavedSearch(ctx, searchID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSavedSearchNotFound) {
			return domain.SavedSearch{}, domain.FilterCriteria{}, fmt.Errorf("%s: %w", op, ErrSavedSearchNotFound)
		}
		s.log.Error("failed to get saved search", sl.Err(err))
		return domain.SavedSearch{}, domain.FilterCriteria{}, fmt.Errorf("%s: %w", op, err)
	}

	criteria, err := domain.DecodeSearchCriteria(saved.Criteria)
	if err != nil {
		s.log.Warn("failed to decode saved criteria",
			slog.String("search_id", searchID.String()), sl.Err(err))
		return domain.SavedSearch{}, domain.FilterCriteria{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, criteria, nil
}

// DeleteSavedSearch — удаляет сохранённый поиск владельца.
func (s *Service) DeleteSavedSearch(ctx context.Context, searchID, userID uuid.UUID) error {
	const op = "search.Service.DeleteSavedSearch"

	if err := s.repo.DeleteSavedSearch(ctx, searchID, userID); err != nil {
		if errors.Is(err, repository.ErrSavedSearchNotFound) {
			return fmt.Errorf("%s: %w", op, ErrSavedSearchNotFound)
		}
		s.log.Error("failed to delete saved search", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("saved search deleted", slog.String("search_id", searchID.String()))
	return nil
}

// GetPreferences — долговременные предпочтения пользователя.
// Отсутствие предпочтений — штатная ситуация: возвращается пустая запись.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error) {
	const op = "search.Service.GetPreferences"

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferencesNotFound) {
			return domain.SearchPreferences{UserID: userID}, nil
		}
		s.log.Error("failed to get preferences", sl.Err(err))
		return domain.SearchPreferences{}, fmt.Errorf("%s: %w", op, err)
	}

	return prefs, nil
}

// UpsertPreferences — создаёт или полностью заменяет предпочтения пользователя.
func (s *Service) UpsertPreferences(ctx context.Context, prefs domain.SearchPreferences) error {
	const op = "search.Service.UpsertPreferences"

	for _, t := range prefs.PropertyTypes {
		if !t.Valid() {
			return fmt.Errorf("%s: %w", op, domain.ErrUnknownPropertyType)
		}
	}

	if err := s.repo.UpsertPreferences(ctx, prefs); err != nil {
		s.log.Error("failed to upsert preferences", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("preferences updated", slog.String("user_id", prefs.UserID.String()))
	return nil
}
