package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FilterCriteria — набор предикатов для отбора объектов.
// Все предикаты соединяются логическим И; нулевое значение — тождественный фильтр.
type FilterCriteria struct {
	// Query — подстрочный поиск без учёта регистра по title ∪ location ∪ description
	Query string `json:"query,omitempty"`
	// Location — подстрока локации
	Location string `json:"location,omitempty"`
	// PropertyType — точное совпадение типа; пустое значение = любой
	PropertyType PropertyType `json:"property_type,omitempty"`
	// Bedrooms — точное совпадение кол-ва спален; nil = любое.
	// Семантика именно exact-match, не "N и больше".
	Bedrooms *int32 `json:"bedrooms,omitempty"`
	// MinPrice / MaxPrice — ценовой диапазон, границы включительно; nil = без границы
	MinPrice *int64 `json:"min_price,omitempty"`
	MaxPrice *int64 `json:"max_price,omitempty"`
	// Amenities — объект должен содержать ВСЕ выбранные удобства
	Amenities []string `json:"amenities,omitempty"`
	// IsFurnished / IsPetFriendly — тривалентные флаги; nil = не важно
	IsFurnished   *bool `json:"is_furnished,omitempty"`
	IsPetFriendly *bool `json:"is_pet_friendly,omitempty"`
	// MoveInDate пока не участвует в отборе
	MoveInDate string `json:"move_in_date,omitempty"`
}

// IsEmpty сообщает, заданы ли хоть какие-то предикаты.
func (c FilterCriteria) IsEmpty() bool {
	return c.Query == "" && c.Location == "" && c.PropertyType == PropertyTypeUnspecified &&
		c.Bedrooms == nil && c.MinPrice == nil && c.MaxPrice == nil &&
		len(c.Amenities) == 0 && c.IsFurnished == nil && c.IsPetFriendly == nil
}

// SearchCriteriaVersion — текущая версия сериализованных критериев поиска.
const SearchCriteriaVersion = 1

// ErrCriteriaVersion — сохранённые критерии имеют неподдерживаемую версию схемы.
var ErrCriteriaVersion = errors.New("unsupported search criteria version")

// versionedCriteria — сериализованная форма критериев с явным тегом версии.
// Критерии старой схемы отклоняются, а не интерпретируются молча.
type versionedCriteria struct {
	Version int `json:"version"`
	FilterCriteria
}

// EncodeSearchCriteria сериализует критерии с тегом версии.
func EncodeSearchCriteria(c FilterCriteria) (json.RawMessage, error) {
	data, err := json.Marshal(versionedCriteria{
		Version:        SearchCriteriaVersion,
		FilterCriteria: c,
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeSearchCriteria разбирает сохранённые критерии, проверяя версию схемы.
func DecodeSearchCriteria(raw json.RawMessage) (FilterCriteria, error) {
	var vc versionedCriteria
	if err := json.Unmarshal(raw, &vc); err != nil {
		return FilterCriteria{}, err
	}
	if vc.Version != SearchCriteriaVersion {
		return FilterCriteria{}, fmt.Errorf("%w: %d", ErrCriteriaVersion, vc.Version)
	}
	return vc.FilterCriteria, nil
}

// SavedSearch — сохранённый поиск пользователя.
type SavedSearch struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	// Criteria — версионированный payload (см. EncodeSearchCriteria)
	Criteria       json.RawMessage `json:"criteria"`
	IsActive       bool            `json:"is_active"`
	LastNotifiedAt *time.Time      `json:"last_notified_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SearchPreferences — долговременные предпочтения пользователя для подбора.
type SearchPreferences struct {
	UserID             uuid.UUID      `json:"user_id"`
	MinPrice           *int64         `json:"min_price,omitempty"`
	MaxPrice           *int64         `json:"max_price,omitempty"`
	MinBedrooms        *int32         `json:"min_bedrooms,omitempty"`
	MaxBedrooms        *int32         `json:"max_bedrooms,omitempty"`
	MinBathrooms       *float64       `json:"min_bathrooms,omitempty"`
	MaxBathrooms       *float64       `json:"max_bathrooms,omitempty"`
	PreferredLocations []string       `json:"preferred_locations,omitempty"`
	PropertyTypes      []PropertyType `json:"property_types,omitempty"`
	PreferredAmenities []string       `json:"preferred_amenities,omitempty"`
	IsFurnished        *bool          `json:"is_furnished,omitempty"`
	IsPetFriendly      *bool          `json:"is_pet_friendly,omitempty"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
