package search_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SearchRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewSearchRepository(db *pgxpool.Pool, log *slog.Logger) *SearchRepository {
	return &SearchRepository{db: db, log: log}
}

// CreateSavedSearch — сохраняет поиск с версионированными критериями.
func (r *SearchRepository) CreateSavedSearch(ctx context.Context, search domain.SavedSearch) (uuid.UUID, error) {
	const op = "SearchRepository.CreateSavedSearch"

	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO saved_searches (user_id, search_name, search_criteria, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING search_id
	`, search.UserID, search.Name, search.Criteria, search.IsActive).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// ListSavedSearches — активные сохранённые поиски пользователя, новые первыми.
func (r *SearchRepository) ListSavedSearches(ctx context.Context, userID uuid.UUID) ([]domain.SavedSearch, error) {
	const op = "SearchRepository.ListSavedSearches"

	query := `
		SELECT search_id, user_id, search_name, search_criteria, is_active, last_notified_at, created_at
		FROM saved_searches
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var searches []domain.SavedSearch
	for rows.Next() {
		var s domain.SavedSearch
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Criteria,
			&s.IsActive,
			&s.LastNotifiedAt,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		searches = append(searches, s)
	}

	return searches, rows.Err()
}

// GetSavedSearch — получает сохранённый поиск владельца.
func (r *SearchRepository) GetSavedSearch(ctx context.Context, searchID, userID uuid.UUID) (domain.SavedSearch, error) {
	const op = "SearchRepository.GetSavedSearch"

	query := `
		SELECT search_id, user_id, search_name, search_criteria, is_active, last_notified_at, created_at
		FROM saved_searches
		WHERE search_id = $1 AND user_id = $2
	`

	var s domain.SavedSearch
	err := r.db.QueryRow(ctx, query, searchID, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Criteria,
		&s.IsActive,
		&s.LastNotifiedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedSearch{}, fmt.Errorf("%s: %w", op, repository.ErrSavedSearchNotFound)
		}
		return domain.SavedSearch{}, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// DeleteSavedSearch — удаляет сохранённый поиск. Удаляет только владелец.
func (r *SearchRepository) DeleteSavedSearch(ctx context.Context, searchID, userID uuid.UUID) error {
	const op = "SearchRepository.DeleteSavedSearch"

	tag, err := r.db.Exec(ctx,
		`DELETE FROM saved_searches WHERE search_id = $1 AND user_id = $2`,
		searchID, userID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrSavedSearchNotFound)
	}

	return nil
}

// GetPreferences — долговременные предпочтения пользователя.
func (r *SearchRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.SearchPreferences, error) {
	const op = "SearchRepository.GetPreferences"

	query := `
		SELECT user_id, min_price, max_price, min_bedrooms, max_bedrooms,
			min_bathrooms, max_bathrooms, preferred_locations, property_types,
			preferred_amenities, is_furnished, is_pet_friendly, updated_at
		FROM search_preferences
		WHERE user_id = $1
	`

	var p domain.SearchPreferences
	var types []string
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.MinPrice,
		&p.MaxPrice,
		&p.MinBedrooms,
		&p.MaxBedrooms,
		&p.MinBathrooms,
		&p.MaxBathrooms,
		&p.PreferredLocations,
		&types,
		&p.PreferredAmenities,
		&p.IsFurnished,
		&p.IsPetFriendly,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SearchPreferences{}, fmt.Errorf("%s: %w", op, repository.ErrPreferencesNotFound)
		}
		return domain.SearchPreferences{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, t := range types {
		p.PropertyTypes = append(p.PropertyTypes, domain.PropertyType(t))
	}

	return p, nil
}

// UpsertPreferences — создаёт или полностью заменяет предпочтения пользователя.
func (r *SearchRepository) UpsertPreferences(ctx context.Context, p domain.SearchPreferences) error {
	const op = "SearchRepository.UpsertPreferences"

	types := make([]string, 0, len(p.PropertyTypes))
	for _, t := range p.PropertyTypes {
		types = append(types, t.String())
	}

	query := `
		INSERT INTO search_preferences (
			user_id, min_price, max_price, min_bedrooms, max_bedrooms,
			min_bathrooms, max_bathrooms, preferred_locations, property_types,
			preferred_amenities, is_furnished, is_pet_friendly
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			min_bedrooms = EXCLUDED.min_bedrooms,
			max_bedrooms = EXCLUDED.max_bedrooms,
			min_bathrooms = EXCLUDED.min_bathrooms,
			max_bathrooms = EXCLUDED.max_bathrooms,
			preferred_locations = EXCLUDED.preferred_locations,
			property_types = EXCLUDED.property_types,
			preferred_amenities = EXCLUDED.preferred_amenities,
			is_furnished = EXCLUDED.is_furnished,
			is_pet_friendly = EXCLUDED.is_pet_friendly,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		p.UserID,
		p.MinPrice,
		p.MaxPrice,
		p.MinBedrooms,
		p.MaxBedrooms,
		p.MinBathrooms,
		p.MaxBathrooms,
		p.PreferredLocations,
		types,
		p.PreferredAmenities,
		p.IsFurnished,
		p.IsPetFriendly,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
