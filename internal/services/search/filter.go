package search

import (
	"strings"

	"rentkenya/internal/domain"

	"github.com/samber/lo"
)

// Filter отбирает объекты, удовлетворяющие всем предикатам критериев.
// Функция чистая: вход не мутируется, порядок объектов сохраняется.
// Пустые критерии возвращают вход как есть.
func Filter(properties []domain.Property, criteria domain.FilterCriteria) []domain.Property {
	if criteria.IsEmpty() {
		return properties
	}

	return lo.Filter(properties, func(p domain.Property, _ int) bool {
		return Matches(p, criteria)
	})
}

// Matches проверяет один объект против всех предикатов (логическое И).
func Matches(p domain.Property, c domain.FilterCriteria) bool {
	if c.Query != "" && !matchesQuery(p, c.Query) {
		return false
	}

	if c.Location != "" &&
		!strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.Location)) {
		return false
	}

	if c.PropertyType != domain.PropertyTypeUnspecified && p.PropertyType != c.PropertyType {
		return false
	}

	// Спальни сравниваются на точное равенство, не "N и больше"
	if c.Bedrooms != nil && p.Bedrooms != *c.Bedrooms {
		return false
	}

	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}

	// Объект должен содержать каждое выбранное удобство
	if len(c.Amenities) > 0 && !lo.Every(p.Amenities, c.Amenities) {
		return false
	}

	if c.IsFurnished != nil && p.IsFurnished != *c.IsFurnished {
		return false
	}
	if c.IsPetFriendly != nil && p.IsPetFriendly != *c.IsPetFriendly {
		return false
	}

	// MoveInDate: календарь заездов не ведётся, предикат всегда истинен

	return true
}

// matchesQuery — подстрочный поиск без учёта регистра по заголовку,
// локации и описанию объекта.
func matchesQuery(p domain.Property, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Location), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
