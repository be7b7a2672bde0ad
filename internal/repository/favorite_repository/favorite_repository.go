package favorite_repository

import (
	"context"
	"fmt"
	"log/slog"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewFavoriteRepository(db *pgxpool.Pool, log *slog.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, log: log}
}

// Add — вставляет пару (user, property). Пара уникальна.
func (r *FavoriteRepository) Add(ctx context.Context, userID, propertyID uuid.UUID) error {
	const op = "FavoriteRepository.Add"

	query := `INSERT INTO favorites (user_id, property_id) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, userID, propertyID); err != nil {
		if repository.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, repository.ErrFavoriteExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Remove — удаляет пару (user, property).
func (r *FavoriteRepository) Remove(ctx context.Context, userID, propertyID uuid.UUID) error {
	const op = "FavoriteRepository.Remove"

	query := `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, propertyID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrFavoriteNotFound)
	}

	return nil
}

// ListIDs — возвращает ID избранных объектов пользователя.
func (r *FavoriteRepository) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const op = "FavoriteRepository.ListIDs"

	query := `SELECT property_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListProperties — возвращает избранные объекты пользователя целиком.
func (r *FavoriteRepository) ListProperties(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	const op = "FavoriteRepository.ListProperties"

	query := `
		SELECT
			p.property_id, p.landlord_id, p.title, p.description, p.property_type, p.location,
			p.price, p.bedrooms, p.bathrooms,
			p.is_furnished, p.is_pet_friendly, p.is_available,
			p.amenities, p.images, p.view_count, p.inquiry_count,
			p.created_at, p.updated_at
		FROM favorites f
		JOIN properties p ON p.property_id = f.property_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var propertyTypeStr string
		if err := rows.Scan(
			&p.ID,
			&p.LandlordID,
			&p.Title,
			&p.Description,
			&propertyTypeStr,
			&p.Location,
			&p.Price,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.IsFurnished,
			&p.IsPetFriendly,
			&p.IsAvailable,
			&p.Amenities,
			&p.Images,
			&p.ViewCount,
			&p.InquiryCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		p.PropertyType = domain.PropertyType(propertyTypeStr)
		properties = append(properties, p)
	}

	return properties, rows.Err()
}
