package favorites

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
)

// MockFavoriteRepository
type MockFavoriteRepository struct {
	AddFunc    func(ctx context.Context, userID, propertyID uuid.UUID) error
	RemoveFunc func(ctx context.Context, userID, propertyID uuid.UUID) error
	ListFunc   func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	addCalls    int
	removeCalls int
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	m.addCalls++
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, propertyID)
	}
	return nil
}
func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	m.removeCalls++
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, propertyID)
	}
	return nil
}
func (m *MockFavoriteRepository) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockFavoriteRepository) ListProperties(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	return nil, nil
}

// MockPropertyProvider
type MockPropertyProvider struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Property, error)
}

func (m *MockPropertyProvider) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return domain.Property{ID: id, IsAvailable: true}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestService_ToggleFavorite_Twice(t *testing.T) {
	userID := uuid.New()
	propertyID := uuid.New()
	repo := &MockFavoriteRepository{}

	svc := New(testLogger(), repo, &MockPropertyProvider{})

	added, err := svc.ToggleFavorite(context.Background(), userID, propertyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Error("first toggle must add")
	}

	added, err = svc.ToggleFavorite(context.Background(), userID, propertyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Error("second toggle must remove")
	}

	// Ровно одна вставка и одно удаление в хранилище
	if repo.addCalls != 1 || repo.removeCalls != 1 {
		t.Errorf("expected 1 add and 1 remove, got %d and %d", repo.addCalls, repo.removeCalls)
	}
}

func TestService_ToggleFavorite_StoreFailureDoesNotMutateCache(t *testing.T) {
	userID := uuid.New()
	propertyID := uuid.New()
	storeErr := errors.New("connection lost")
	repo := &MockFavoriteRepository{
		AddFunc: func(ctx context.Context, uid, pid uuid.UUID) error {
			return storeErr
		},
	}

	svc := New(testLogger(), repo, &MockPropertyProvider{})

	if _, err := svc.ToggleFavorite(context.Background(), userID, propertyID); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}

	fav, err := svc.IsFavorite(context.Background(), userID, propertyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fav {
		t.Error("cache must not record a favorite the store rejected")
	}
}

func TestService_ToggleFavorite_DuplicateInStoreTolerated(t *testing.T) {
	userID := uuid.New()
	propertyID := uuid.New()
	repo := &MockFavoriteRepository{
		AddFunc: func(ctx context.Context, uid, pid uuid.UUID) error {
			return repository.ErrFavoriteExists
		},
	}

	svc := New(testLogger(), repo, &MockPropertyProvider{})

	added, err := svc.ToggleFavorite(context.Background(), userID, propertyID)
	if err != nil {
		t.Fatalf("duplicate row must not surface as an error, got %v", err)
	}
	if !added {
		t.Error("toggle must report the property as favorited")
	}
}

func TestService_FavoritesLoadedLazily(t *testing.T) {
	userID := uuid.New()
	seeded := []uuid.UUID{uuid.New(), uuid.New()}
	listCalls := 0
	repo := &MockFavoriteRepository{
		ListFunc: func(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
			listCalls++
			return seeded, nil
		},
	}

	svc := New(testLogger(), repo, &MockPropertyProvider{})

	ids, err := svc.FavoriteIDs(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 favorites, got %d", len(ids))
	}

	// Повторный вызов обслуживается из кэша
	if _, err := svc.FavoriteIDs(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listCalls != 1 {
		t.Errorf("expected a single store read, got %d", listCalls)
	}
}

func TestService_AddToComparison_LimitEnforced(t *testing.T) {
	userID := uuid.New()
	svc := New(testLogger(), &MockFavoriteRepository{}, &MockPropertyProvider{})

	for i := 0; i < domain.ComparisonLimit; i++ {
		if err := svc.AddToComparison(context.Background(), userID, uuid.New()); err != nil {
			t.Fatalf("add %d failed: %v", i+1, err)
		}
	}

	err := svc.AddToComparison(context.Background(), userID, uuid.New())
	if !errors.Is(err, ErrComparisonFull) {
		t.Errorf("expected ErrComparisonFull on add beyond the limit, got %v", err)
	}

	if got := len(svc.ComparisonIDs(userID)); got != domain.ComparisonLimit {
		t.Errorf("expected %d properties in comparison, got %d", domain.ComparisonLimit, got)
	}
}

func TestService_AddToComparison_DuplicateIsNoop(t *testing.T) {
	userID := uuid.New()
	propertyID := uuid.New()
	svc := New(testLogger(), &MockFavoriteRepository{}, &MockPropertyProvider{})

	if err := svc.AddToComparison(context.Background(), userID, propertyID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddToComparison(context.Background(), userID, propertyID); err != nil {
		t.Fatalf("duplicate add must be a no-op, got %v", err)
	}

	if got := len(svc.ComparisonIDs(userID)); got != 1 {
		t.Errorf("expected 1 property, got %d", got)
	}
}

func TestService_ComparisonProperties_DropsStaleEntries(t *testing.T) {
	userID := uuid.New()
	deleted := uuid.New()
	unavailable := uuid.New()
	alive := uuid.New()

	prop := &MockPropertyProvider{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (domain.Property, error) {
			switch id {
			case deleted:
				return domain.Property{}, repository.ErrPropertyNotFound
			case unavailable:
				return domain.Property{ID: id, IsAvailable: false}, nil
			}
			return domain.Property{ID: id, IsAvailable: true}, nil
		},
	}

	svc := New(testLogger(), &MockFavoriteRepository{}, &MockPropertyProvider{})
	svc.prop = prop

	for _, id := range []uuid.UUID{deleted, unavailable, alive} {
		// Добавляем через внутреннее состояние: на момент добавления все существовали
		svc.comparisons[userID] = append(svc.comparisons[userID], id)
	}

	got, err := svc.ComparisonProperties(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != alive {
		t.Errorf("expected only the live property, got %+v", got)
	}

	// Протухшие записи вычищены из списка
	if ids := svc.ComparisonIDs(userID); len(ids) != 1 || ids[0] != alive {
		t.Errorf("stale entries must be pruned, got %v", ids)
	}
}

func TestService_ComparisonIsPerUser(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	svc := New(testLogger(), &MockFavoriteRepository{}, &MockPropertyProvider{})

	if err := svc.AddToComparison(context.Background(), alice, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(svc.ComparisonIDs(bob)); got != 0 {
		t.Errorf("comparison lists must be isolated per user, got %d entries", got)
	}
}
