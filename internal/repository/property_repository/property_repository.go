package property_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rentkenya/internal/domain"
	"rentkenya/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewPropertyRepository(db *pgxpool.Pool, log *slog.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, log: log}
}

const propertyColumns = `
	property_id, landlord_id, title, description, property_type, location,
	price, bedrooms, bathrooms,
	is_furnished, is_pet_friendly, is_available,
	amenities, images, view_count, inquiry_count,
	created_at, updated_at
`

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	var propertyTypeStr string
	err := row.Scan(
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
	)
	if err != nil {
		return domain.Property{}, err
	}
	p.PropertyType = domain.PropertyType(propertyTypeStr)
	return p, nil
}

// CreateProperty — создаёт новый объект аренды.
func (r *PropertyRepository) CreateProperty(ctx context.Context, property domain.Property) (uuid.UUID, error) {
	const op = "PropertyRepository.CreateProperty"

	query := `
		INSERT INTO properties (
			landlord_id, title, description, property_type, location,
			price, bedrooms, bathrooms,
			is_furnished, is_pet_friendly, is_available,
			amenities, images
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING property_id
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		property.LandlordID,
		property.Title,
		property.Description,
		property.PropertyType.String(),
		property.Location,
		property.Price,
		property.Bedrooms,
		property.Bathrooms,
		property.IsFurnished,
		property.IsPetFriendly,
		property.IsAvailable,
		property.Amenities,
		property.Images,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetByID — получает объект аренды по ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	const op = "PropertyRepository.GetByID"

	query := `SELECT` + propertyColumns + `FROM properties WHERE property_id = $1`

	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, fmt.Errorf("%s: %w", op, repository.ErrPropertyNotFound)
		}
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpdateProperty — частичное обновление данных объекта аренды.
func (r *PropertyRepository) UpdateProperty(ctx context.Context, propertyID uuid.UUID, update domain.PropertyFilter) error {
	const op = "PropertyRepository.UpdateProperty"

	setClauses := []string{}
	params := []interface{}{}
	paramCount := 1

	if update.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", paramCount))
		params = append(params, *update.Title)
		paramCount++
	}
	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", paramCount))
		params = append(params, *update.Description)
		paramCount++
	}
	if update.PropertyType != nil {
		setClauses = append(setClauses, fmt.Sprintf("property_type = $%d", paramCount))
		params = append(params, (*update.PropertyType).String())
		paramCount++
	}
	if update.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", paramCount))
		params = append(params, *update.Location)
		paramCount++
	}
	if update.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", paramCount))
		params = append(params, *update.Price)
		paramCount++
	}
	if update.Bedrooms != nil {
		setClauses = append(setClauses, fmt.Sprintf("bedrooms = $%d", paramCount))
		params = append(params, *update.Bedrooms)
		paramCount++
	}
	if update.Bathrooms != nil {
		setClauses = append(setClauses, fmt.Sprintf("bathrooms = $%d", paramCount))
		params = append(params, *update.Bathrooms)
		paramCount++
	}
	if update.IsFurnished != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_furnished = $%d", paramCount))
		params = append(params, *update.IsFurnished)
		paramCount++
	}
	if update.IsPetFriendly != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_pet_friendly = $%d", paramCount))
		params = append(params, *update.IsPetFriendly)
		paramCount++
	}
	if update.IsAvailable != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_available = $%d", paramCount))
		params = append(params, *update.IsAvailable)
		paramCount++
	}
	if update.Amenities != nil {
		setClauses = append(setClauses, fmt.Sprintf("amenities = $%d", paramCount))
		params = append(params, update.Amenities)
		paramCount++
	}
	if update.Images != nil {
		setClauses = append(setClauses, fmt.Sprintf("images = $%d", paramCount))
		params = append(params, update.Images)
		paramCount++
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNoFieldsToUpdate)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE properties SET %s WHERE property_id = $%d`, strings.Join(setClauses, ", "), paramCount)
	params = append(params, propertyID)

	tag, err := r.db.Exec(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrPropertyNotFound)
	}

	return nil
}

// ListProperties — возвращает объекты аренды по фильтру с пагинацией.
func (r *PropertyRepository) ListProperties(ctx context.Context, filter domain.PropertyFilter) (*domain.PaginatedResult[domain.Property], error) {
	const op = "PropertyRepository.ListProperties"

	// Нормализуем параметры пагинации.
	// Сортировка фиксирована по (created_at, property_id): курсор несёт
	// именно эту пару, другие поля сортировки он не переживёт.
	pageSize := int(domain.DefaultPageSize)
	var cursor *domain.PageCursor
	orderDir := domain.OrderDesc

	if filter.Pagination != nil {
		pageSize = int(domain.NormalizePageSize(filter.Pagination.PageSize))
		orderDir = domain.NormalizeOrderDirection(string(filter.Pagination.OrderDirection))

		// Декодируем курсор
		if filter.Pagination.PageToken != "" {
			var err error
			cursor, err = domain.DecodePageCursor(filter.Pagination.PageToken)
			if err != nil {
				r.log.Warn("failed to decode page cursor, starting from beginning", "error", err)
				cursor = nil
			}
		}
	}

	// Базовые WHERE условия (без cursor)
	baseWhereClauses := []string{}
	baseParams := []interface{}{}
	paramCount := 1

	if filter.IsAvailable != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("is_available = $%d", paramCount))
		baseParams = append(baseParams, *filter.IsAvailable)
		paramCount++
	}
	if filter.LandlordID != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("landlord_id = $%d", paramCount))
		baseParams = append(baseParams, *filter.LandlordID)
		paramCount++
	}
	if filter.PropertyType != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("property_type = $%d", paramCount))
		baseParams = append(baseParams, (*filter.PropertyType).String())
		paramCount++
	}
	if filter.Location != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("location ILIKE '%%' || $%d || '%%'", paramCount))
		baseParams = append(baseParams, *filter.Location)
		paramCount++
	}
	if filter.MinPrice != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("price >= $%d", paramCount))
		baseParams = append(baseParams, *filter.MinPrice)
		paramCount++
	}
	if filter.MaxPrice != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("price <= $%d", paramCount))
		baseParams = append(baseParams, *filter.MaxPrice)
		paramCount++
	}
	if filter.MinBedrooms != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("bedrooms >= $%d", paramCount))
		baseParams = append(baseParams, *filter.MinBedrooms)
		paramCount++
	}
	if filter.MaxBedrooms != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("bedrooms <= $%d", paramCount))
		baseParams = append(baseParams, *filter.MaxBedrooms)
		paramCount++
	}
	if filter.IsFurnished != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("is_furnished = $%d", paramCount))
		baseParams = append(baseParams, *filter.IsFurnished)
		paramCount++
	}
	if filter.IsPetFriendly != nil {
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("is_pet_friendly = $%d", paramCount))
		baseParams = append(baseParams, *filter.IsPetFriendly)
		paramCount++
	}
	if len(filter.Amenities) > 0 {
		// Объект должен содержать все выбранные удобства
		baseWhereClauses = append(baseWhereClauses, fmt.Sprintf("amenities @> $%d", paramCount))
		baseParams = append(baseParams, filter.Amenities)
		paramCount++
	}

	// Получаем total count
	countQuery := "SELECT COUNT(*) FROM properties"
	if len(baseWhereClauses) > 0 {
		countQuery += " WHERE " + strings.Join(baseWhereClauses, " AND ")
	}

	var totalCount int32
	err := r.db.QueryRow(ctx, countQuery, baseParams...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("%s: count failed: %w", op, err)
	}

	// Копируем для основного запроса
	whereClauses := append([]string{}, baseWhereClauses...)
	params := append([]interface{}{}, baseParams...)

	// Применяем cursor-based пагинацию
	if cursor != nil {
		whereClauses = append(whereClauses, keysetClause(orderDir, paramCount))
		params = append(params, cursor.LastCreatedAt, cursor.LastID)
		paramCount += 2
	}

	// Собираем основной запрос
	query := `SELECT` + propertyColumns + `FROM properties`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// ORDER BY с direction
	query += orderClause(orderDir)

	// LIMIT +1 для определения has_more
	query += fmt.Sprintf(" LIMIT $%d", paramCount)
	params = append(params, pageSize+1)

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	// Определяем hasMore и обрезаем до pageSize
	hasMore := len(properties) > pageSize
	if hasMore {
		properties = properties[:pageSize]
	}

	// Генерируем next cursor
	var nextPageToken string
	if hasMore && len(properties) > 0 {
		lastProp := properties[len(properties)-1]
		nextCursor := &domain.PageCursor{
			LastID:        lastProp.ID,
			LastCreatedAt: lastProp.CreatedAt,
		}
		nextPageToken = nextCursor.Encode()
	}

	return &domain.PaginatedResult[domain.Property]{
		Items:         properties,
		NextPageToken: nextPageToken,
		TotalCount:    totalCount,
		HasMore:       hasMore,
	}, nil
}

// keysetClause собирает условие keyset-пагинации. Столбцы обязаны
// совпадать с парой (LastCreatedAt, LastID), которую несёт PageCursor.
func keysetClause(orderDir domain.OrderDirection, paramCount int) string {
	cmp := "<"
	if orderDir == domain.OrderAsc {
		cmp = ">"
	}
	return fmt.Sprintf("(created_at, property_id) %s ($%d, $%d)", cmp, paramCount, paramCount+1)
}

func orderClause(orderDir domain.OrderDirection) string {
	dirStr := "DESC"
	if orderDir == domain.OrderAsc {
		dirStr = "ASC"
	}
	return fmt.Sprintf(" ORDER BY created_at %s, property_id %s", dirStr, dirStr)
}

// ListAvailableExcluding возвращает до limit доступных объектов, исключая перечисленные ID.
// Используется для формирования списка кандидатов на рекомендации.
func (r *PropertyRepository) ListAvailableExcluding(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Property, error) {
	const op = "PropertyRepository.ListAvailableExcluding"

	query := `SELECT` + propertyColumns + `FROM properties WHERE is_available = TRUE`

	params := []interface{}{}
	if len(exclude) > 0 {
		query += " AND property_id != ALL($1)"
		params = append(params, exclude)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(params)+1)
	params = append(params, limit)

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// IncrementViewCount — атомарный серверный инкремент счётчика просмотров.
// Конкурентные просмотры не теряют обновления: никакого read-modify-write на клиенте.
func (r *PropertyRepository) IncrementViewCount(ctx context.Context, propertyID uuid.UUID, viewerID *uuid.UUID) error {
	const op = "PropertyRepository.IncrementViewCount"

	if _, err := r.db.Exec(ctx, "SELECT increment_property_views($1, $2)", propertyID, viewerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
