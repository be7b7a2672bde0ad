package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Property — доменная сущность объекта аренды.
type Property struct {
	ID           uuid.UUID    `json:"id"`
	LandlordID   uuid.UUID    `json:"landlord_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	PropertyType PropertyType `json:"property_type"`
	// Location — свободный текст (район/город), например "Kilimani, Nairobi"
	Location string `json:"location"`
	// Price — месячная ставка аренды в KES
	Price         int64    `json:"price"`
	Bedrooms      int32    `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	IsFurnished   bool     `json:"is_furnished"`
	IsPetFriendly bool     `json:"is_pet_friendly"`
	IsAvailable   bool     `json:"is_available"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	// Денормализованные счётчики; меняются только атомарными процедурами на стороне БД
	ViewCount    int32     `json:"view_count"`
	InquiryCount int32     `json:"inquiry_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PropertyType — тип объекта аренды.
type PropertyType string

const (
	PropertyTypeUnspecified PropertyType = ""
	PropertyTypeApartment   PropertyType = "apartment"
	PropertyTypeHouse       PropertyType = "house"
	PropertyTypeStudio      PropertyType = "studio"
	PropertyTypeVilla       PropertyType = "villa"
	PropertyTypeTownhouse   PropertyType = "townhouse"
)

func (t PropertyType) String() string {
	return string(t)
}

// Valid сообщает, известен ли тип.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeStudio,
		PropertyTypeVilla, PropertyTypeTownhouse:
		return true
	}
	return false
}

var (
	ErrEmptyTitle          = errors.New("title must not be empty")
	ErrEmptyLocation       = errors.New("location must not be empty")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrNegativeBedrooms    = errors.New("bedrooms must not be negative")
	ErrNegativeBathrooms   = errors.New("bathrooms must not be negative")
	ErrUnknownPropertyType = errors.New("unknown property type")
)

// Validate проверяет инварианты объекта перед записью.
func (p Property) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if p.Location == "" {
		return ErrEmptyLocation
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Bedrooms < 0 {
		return ErrNegativeBedrooms
	}
	if p.Bathrooms < 0 {
		return ErrNegativeBathrooms
	}
	if !p.PropertyType.Valid() {
		return ErrUnknownPropertyType
	}
	return nil
}

// PropertyFilter — фильтр для выборок или частичных обновлений объектов.
type PropertyFilter struct {
	Title         *string
	Description   *string
	PropertyType  *PropertyType
	Location      *string
	Price         *int64
	Bedrooms      *int32
	Bathrooms     *float64
	IsFurnished   *bool
	IsPetFriendly *bool
	IsAvailable   *bool
	Amenities     []string
	Images        []string
	MinPrice      *int64
	MaxPrice      *int64
	MinBedrooms   *int32
	MaxBedrooms   *int32
	LandlordID    *uuid.UUID

	// Пагинация
	Pagination *PaginationParams
}
