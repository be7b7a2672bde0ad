package search

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
)

// MockSearchRepository
type MockSearchRepository struct {
	CreateSavedSearchFunc func(ctx context.Context, search domain.SavedSearch) (uuid.UUID, error)
	GetSavedSearchFunc    func(ctx context.Context, searchID, userID uuid.UUID) (domain.SavedSearch, error)
	GetPreferencesFunc    func(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error)
}

func (m *MockSearchRepository) CreateSavedSearch(ctx context.Context, search domain.SavedSearch) (uuid.UUID, error) {
	if m.CreateSavedSearchFunc != nil {
		return m.CreateSavedSearchFunc(ctx, search)
	}
	return uuid.New(), nil
}
func (m *MockSearchRepository) ListSavedSearches(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error) {
	return nil, nil
}
func (m *MockSearchRepository) GetSavedSearch(ctx context.Context, searchID, userID uuid.UUID) (domain.SavedSearch, error) {
	if m.GetSavedSearchFunc != nil {
		return m.GetSavedSearchFunc(ctx, searchID, userID)
	}
	return domain.SavedSearch{}, nil
}
func (m *MockSearchRepository) DeleteSavedSearch(ctx context.Context, searchID, userID uuid.UUID) error {
	return nil
}
func (m *MockSearchRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error) {
	if m.GetPreferencesFunc != nil {
		return m.GetPreferencesFunc(ctx, userID)
	}
	return domain.SearchPreferences{}, nil
}
func (m *MockSearchRepository) UpsertPreferences(ctx context.Context, prefs domain.SearchPreferences) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestService_SaveSearch_EncodesVersion(t *testing.T) {
	userID := uuid.New()

	var stored domain.SavedSearch
	repo := &MockSearchRepository{
		CreateSavedSearchFunc: func(ctx context.Context, search domain.SavedSearch) (uuid.UUID, error) {
			stored = search
			return uuid.New(), nil
		},
	}

	svc := New(testLogger(), repo)

	criteria := domain.FilterCriteria{Location: "Kilimani", MinPrice: int64Ptr(50000)}
	_, err := svc.SaveSearch(context.Background(), userID, "kilimani under budget", criteria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(stored.Criteria, &payload); err != nil {
		t.Fatalf("stored criteria is not valid JSON: %v", err)
	}
	if v, ok := payload["version"].(float64); !ok || int(v) != domain.SearchCriteriaVersion {
		t.Errorf("expected version tag %d, got %v", domain.SearchCriteriaVersion, payload["version"])
	}
	if !stored.IsActive {
		t.Error("saved search must be active by default")
	}
}

func TestService_SaveSearch_EmptyNameRejected(t *testing.T) {
	svc := New(testLogger(), &MockSearchRepository{})

	_, err := svc.SaveSearch(context.Background(), uuid.New(), "", domain.FilterCriteria{})
	if !errors.Is(err, ErrEmptySearchName) {
		t.Errorf("expected ErrEmptySearchName, got %v", err)
	}
}

func TestService_LoadSavedSearch_RoundTrip(t *testing.T) {
	userID := uuid.New()
	searchID := uuid.New()
	criteria := domain.FilterCriteria{
		Query:     "garden",
		Bedrooms:  int32Ptr(3),
		Amenities: []string{"parking"},
	}
	raw, err := domain.EncodeSearchCriteria(criteria)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	repo := &MockSearchRepository{
		GetSavedSearchFunc: func(ctx context.Context, sid, uid uuid.UUID) (domain.SavedSearch, error) {
			return domain.SavedSearch{ID: sid, UserID: uid, Criteria: raw}, nil
		},
	}

	svc := New(testLogger(), repo)

	_, got, err := svc.LoadSavedSearch(context.Background(), searchID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Query != "garden" || got.Bedrooms == nil || *got.Bedrooms != 3 {
		t.Errorf("criteria did not survive round trip: %+v", got)
	}
}

func TestService_LoadSavedSearch_VersionMismatch(t *testing.T) {
	repo := &MockSearchRepository{
		GetSavedSearchFunc: func(ctx context.Context, sid, uid uuid.UUID) (domain.SavedSearch, error) {
			return domain.SavedSearch{Criteria: json.RawMessage(`{"version":99,"location":"Karen"}`)}, nil
		},
	}

	svc := New(testLogger(), repo)

	_, _, err := svc.LoadSavedSearch(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrCriteriaVersion) {
		t.Errorf("expected ErrCriteriaVersion, got %v", err)
	}
}

func TestService_GetPreferences_AbsenceIsNotAnError(t *testing.T) {
	userID := uuid.New()
	repo := &MockSearchRepository{
		GetPreferencesFunc: func(ctx context.Context, uid uuid.UUID) (domain.SearchPreferences, error) {
			return domain.SearchPreferences{}, repository.ErrPreferencesNotFound
		},
	}

	svc := New(testLogger(), repo)

	prefs, err := svc.GetPreferences(context.Background(), userID)
	if err != nil {
		t.Fatalf("absence of preferences must not be an error, got %v", err)
	}
	if prefs.UserID != userID {
		t.Errorf("expected empty preferences for user %s, got %+v", userID, prefs)
	}
	if !prefs.UpdatedAt.IsZero() {
		t.Error("empty preferences must have zero UpdatedAt")
	}
}

func TestService_UpsertPreferences_UnknownTypeRejected(t *testing.T) {
	svc := New(testLogger(), &MockSearchRepository{})

	err := svc.UpsertPreferences(context.Background(), domain.SearchPreferences{
		UserID:        uuid.New(),
		PropertyTypes: []domain.PropertyType{"castle"},
	})
	if !errors.Is(err, domain.ErrUnknownPropertyType) {
		t.Errorf("expected ErrUnknownPropertyType, got %v", err)
	}
}
