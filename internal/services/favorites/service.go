package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, propertyID uuid.UUID) error
	Remove(ctx context.Context, userID, propertyID uuid.UUID) error
	ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListProperties(ctx context.Context, userID uuid.UUID) ([]domain.Property, error)
}

type PropertyProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error)
}

var (
	ErrComparisonFull = fmt.Errorf("comparison list holds at most %d properties", domain.ComparisonLimit)
)

// Service держит избранное и списки сравнения в памяти поверх хранилища.
// Кэш избранного — write-through: сначала запись в БД, затем в кэш, так что
// кэш никогда не опережает хранилище. Списки сравнения живут только в памяти.
type Service struct {
	log  *slog.Logger
	repo FavoriteRepository
	prop PropertyProvider

	mu sync.Mutex
	// favorites: user -> множество property ID; nil до первой загрузки
	favorites map[uuid.UUID]map[uuid.UUID]struct{}
	// comparisons: user -> упорядоченный список property ID, не больше ComparisonLimit
	comparisons map[uuid.UUID][]uuid.UUID
}

func New(log *slog.Logger, repo FavoriteRepository, prop PropertyProvider) *Service {
	return &Service{
		log:         log,
		repo:        repo,
		prop:        prop,
		favorites:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
		comparisons: make(map[uuid.UUID][]uuid.UUID),
	}
}

// loadLocked подтягивает избранное пользователя из БД, если кэш ещё пуст.
// Вызывается только под s.mu.
func (s *Service) loadLocked(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if set, ok := s.favorites[userID]; ok {
		return set, nil
	}

	ids, err := s.repo.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.favorites[userID] = set
	return set, nil
}

// ToggleFavorite — переключает объект в избранном. Возвращает true, если
// объект стал избранным, false — если был убран.
func (s *Service) ToggleFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	const op = "favorites.Service.ToggleFavorite"
	log := s.log.With(slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("property_id", propertyID.String()))

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		log.Error("failed to load favorites", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, ok := set[propertyID]; ok {
		if err := s.repo.Remove(ctx, userID, propertyID); err != nil && !errors.Is(err, repository.ErrFavoriteNotFound) {
			log.Error("failed to remove favorite", sl.Err(err))
			return false, fmt.Errorf("%s: %w", op, err)
		}
		delete(set, propertyID)
		log.Info("favorite removed")
		return false, nil
	}

	// Дубликат в БД при рассинхроне кэша не считается отказом
	if err := s.repo.Add(ctx, userID, propertyID); err != nil && !errors.Is(err, repository.ErrFavoriteExists) {
		log.Error("failed to add favorite", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}
	set[propertyID] = struct{}{}
	log.Info("favorite added")
	return true, nil
}

// IsFavorite сообщает, находится ли объект в избранном пользователя.
func (s *Service) IsFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	const op = "favorites.Service.IsFavorite"

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, ok := set[propertyID]
	return ok, nil
}

// FavoriteIDs — ID избранных объектов пользователя.
func (s *Service) FavoriteIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const op = "favorites.Service.FavoriteIDs"

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lo.Keys(set), nil
}

// FavoriteProperties — полные записи избранных объектов, свежие из хранилища.
func (s *Service) FavoriteProperties(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	const op = "favorites.Service.FavoriteProperties"

	properties, err := s.repo.ListProperties(ctx, userID)
	if err != nil {
		s.log.Error("failed to list favorite properties", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return properties, nil
}

// AddToComparison — добавляет объект в список сравнения.
// Повторное добавление — no-op; пятый объект отклоняется.
func (s *Service) AddToComparison(ctx context.Context, userID, propertyID uuid.UUID) error {
	const op = "favorites.Service.AddToComparison"

	// Объект должен существовать
	if _, err := s.prop.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return fmt.Errorf("%s: %w", op, repository.ErrPropertyNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.comparisons[userID]
	if lo.Contains(list, propertyID) {
		return nil
	}
	if len(list) >= domain.ComparisonLimit {
		return fmt.Errorf("%s: %w", op, ErrComparisonFull)
	}

	s.comparisons[userID] = append(list, propertyID)
	s.log.Info("property added to comparison",
		slog.String("user_id", userID.String()),
		slog.String("property_id", propertyID.String()))
	return nil
}

// RemoveFromComparison — убирает объект из списка сравнения. Идемпотентно.
func (s *Service) RemoveFromComparison(userID, propertyID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comparisons[userID] = lo.Without(s.comparisons[userID], propertyID)
}

// ComparisonIDs — ID объектов в списке сравнения в порядке добавления.
func (s *Service) ComparisonIDs(userID uuid.UUID) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]uuid.UUID(nil), s.comparisons[userID]...)
}

// ComparisonProperties — полные записи объектов сравнения. Удалённые и
// снятые с публикации объекты молча выпадают из выдачи и из списка.
func (s *Service) ComparisonProperties(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	const op = "favorites.Service.ComparisonProperties"

	ids := s.ComparisonIDs(userID)
	if len(ids) == 0 {
		return nil, nil
	}

	properties := make([]domain.Property, 0, len(ids))
	stale := make([]uuid.UUID, 0)
	for _, id := range ids {
		p, err := s.prop.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPropertyNotFound) {
				stale = append(stale, id)
				continue
			}
			s.log.Error("failed to fetch comparison property", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !p.IsAvailable {
			stale = append(stale, id)
			continue
		}
		properties = append(properties, p)
	}

	if len(stale) > 0 {
		s.mu.Lock()
		s.comparisons[userID] = lo.Without(s.comparisons[userID], stale...)
		s.mu.Unlock()
	}

	return properties, nil
}

// ClearComparison — очищает список сравнения пользователя.
func (s *Service) ClearComparison(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comparisons, userID)
}
