package search

import (
	"testing"

	"rentkenya/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func int32Ptr(v int32) *int32 { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func testProperties() []domain.Property {
	return []domain.Property{
		{
			ID:            uuid.New(),
			Title:         "Cozy Apartment in Kilimani",
			Description:   "Modern 2 bedroom apartment near Yaya Centre",
			PropertyType:  domain.PropertyTypeApartment,
			Location:      "Kilimani, Nairobi",
			Price:         85000,
			Bedrooms:      2,
			IsFurnished:   true,
			IsPetFriendly: false,
			Amenities:     []string{"parking", "wifi", "gym"},
		},
		{
			ID:            uuid.New(),
			Title:         "Spacious Villa in Karen",
			Description:   "5 bedroom villa with a large garden",
			PropertyType:  domain.PropertyTypeVilla,
			Location:      "Karen, Nairobi",
			Price:         350000,
			Bedrooms:      5,
			IsFurnished:   false,
			IsPetFriendly: true,
			Amenities:     []string{"parking", "garden", "security"},
		},
		{
			ID:           uuid.New(),
			Title:        "Studio in Westlands",
			Description:  "Compact studio close to Sarit Centre",
			PropertyType: domain.PropertyTypeStudio,
			Location:     "Westlands, Nairobi",
			Price:        45000,
			Bedrooms:     0,
			IsFurnished:  true,
			Amenities:    []string{"wifi"},
		},
	}
}

func TestFilter_EmptyCriteriaReturnsAll(t *testing.T) {
	props := testProperties()

	got := Filter(props, domain.FilterCriteria{})

	assert.Equal(t, props, got)
}

func TestFilter_Idempotent(t *testing.T) {
	props := testProperties()
	criteria := domain.FilterCriteria{MinPrice: int64Ptr(50000)}

	once := Filter(props, criteria)
	twice := Filter(once, criteria)

	assert.Equal(t, once, twice)
}

func TestFilter_PreservesOrder(t *testing.T) {
	props := testProperties()

	got := Filter(props, domain.FilterCriteria{Location: "Nairobi"})

	assert.Len(t, got, 3)
	assert.Equal(t, props[0].ID, got[0].ID)
	assert.Equal(t, props[2].ID, got[2].ID)
}

func TestFilter_QuerySearchesTitleLocationDescription(t *testing.T) {
	props := testProperties()

	byTitle := Filter(props, domain.FilterCriteria{Query: "cozy"})
	assert.Len(t, byTitle, 1)
	assert.Equal(t, "Cozy Apartment in Kilimani", byTitle[0].Title)

	byDescription := Filter(props, domain.FilterCriteria{Query: "sarit"})
	assert.Len(t, byDescription, 1)
	assert.Equal(t, "Studio in Westlands", byDescription[0].Title)

	byLocation := Filter(props, domain.FilterCriteria{Query: "KAREN"})
	assert.Len(t, byLocation, 1)
	assert.Equal(t, "Spacious Villa in Karen", byLocation[0].Title)
}

func TestFilter_BedroomsExactMatch(t *testing.T) {
	props := testProperties()

	// Точное равенство: 2 спальни не матчат виллу с пятью
	got := Filter(props, domain.FilterCriteria{Bedrooms: int32Ptr(2)})

	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), got[0].Bedrooms)

	// Ноль спален — валидный запрос для студий
	studios := Filter(props, domain.FilterCriteria{Bedrooms: int32Ptr(0)})
	assert.Len(t, studios, 1)
	assert.Equal(t, domain.PropertyTypeStudio, studios[0].PropertyType)
}

func TestFilter_PriceBoundsInclusive(t *testing.T) {
	props := testProperties()

	got := Filter(props, domain.FilterCriteria{
		MinPrice: int64Ptr(45000),
		MaxPrice: int64Ptr(85000),
	})

	assert.Len(t, got, 2)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, int64(45000))
		assert.LessOrEqual(t, p.Price, int64(85000))
	}
}

func TestFilter_AmenitiesConjunctive(t *testing.T) {
	props := testProperties()

	// Все удобства должны присутствовать, не хотя бы одно
	got := Filter(props, domain.FilterCriteria{Amenities: []string{"parking", "wifi"}})

	assert.Len(t, got, 1)
	assert.Equal(t, "Cozy Apartment in Kilimani", got[0].Title)
}

func TestFilter_TriStateFlags(t *testing.T) {
	props := testProperties()

	furnished := Filter(props, domain.FilterCriteria{IsFurnished: boolPtr(true)})
	assert.Len(t, furnished, 2)

	notPetFriendly := Filter(props, domain.FilterCriteria{IsPetFriendly: boolPtr(false)})
	assert.Len(t, notPetFriendly, 2)

	// nil-флаг пропускает всех
	any := Filter(props, domain.FilterCriteria{Location: "Nairobi"})
	assert.Len(t, any, 3)
}

func TestFilter_MoveInDateIgnored(t *testing.T) {
	props := testProperties()

	got := Filter(props, domain.FilterCriteria{MoveInDate: "2026-10-01"})

	assert.Equal(t, props, got)
}

func TestFilter_ConjunctionAcrossPredicates(t *testing.T) {
	props := testProperties()

	got := Filter(props, domain.FilterCriteria{
		PropertyType: domain.PropertyTypeVilla,
		MinPrice:     int64Ptr(100000),
		Amenities:    []string{"garden"},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "Spacious Villa in Karen", got[0].Title)

	// Один непрошедший предикат отсекает объект целиком
	none := Filter(props, domain.FilterCriteria{
		PropertyType: domain.PropertyTypeVilla,
		MaxPrice:     int64Ptr(100000),
	})
	assert.Empty(t, none)
}

func TestMatches_TypeMismatch(t *testing.T) {
	props := testProperties()

	assert.False(t, Matches(props[0], domain.FilterCriteria{PropertyType: domain.PropertyTypeHouse}))
	assert.True(t, Matches(props[0], domain.FilterCriteria{PropertyType: domain.PropertyTypeApartment}))
}
