package domain

import (
	"regexp"
	"strings"
)

// KnownAreas — список известных районов и городов Кении для автоматического определения.
var KnownAreas = []string{
	"Kilimani", "Karen", "Westlands", "Runda", "Lavington", "Kileleshwa",
	"Parklands", "South B", "South C", "Langata", "Kasarani", "Ruaka",
	"Kitisuru", "Muthaiga", "Spring Valley", "Loresho", "Hurlingham",
	"Upper Hill", "Ngong Road", "Thika Road", "Syokimau", "Athi River",
	"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret", "Thika",
	"Nyali", "Bamburi", "Diani", "Malindi",
}

// ExtractAreaFromLocation пытается определить район или город из свободного текста локации.
// Возвращает nil, если район определить не удалось.
func ExtractAreaFromLocation(location string) *string {
	if location == "" {
		return nil
	}

	locationLower := strings.ToLower(location)

	// Ищем известные районы
	for _, area := range KnownAreas {
		if strings.Contains(locationLower, strings.ToLower(area)) {
			return &area
		}
	}

	// Берём часть до первой запятой — обычно это район
	pattern := regexp.MustCompile(`^([A-Za-z][A-Za-z .'-]+),`)
	if matches := pattern.FindStringSubmatch(location); len(matches) > 1 {
		area := strings.TrimSpace(matches[1])
		if len(area) > 2 {
			return &area
		}
	}

	return nil
}

// NormalizeArea приводит название района к единому виду.
func NormalizeArea(area string) string {
	area = strings.TrimSpace(area)

	// Приводим разговорные варианты к стандартным названиям
	normalizations := map[string]string{
		"nbo":        "Nairobi",
		"nai":        "Nairobi",
		"msa":        "Mombasa",
		"westy":      "Westlands",
		"south b":    "South B",
		"south c":    "South C",
		"ngong rd":   "Ngong Road",
		"thika rd":   "Thika Road",
	}

	areaLower := strings.ToLower(area)
	if normalized, ok := normalizations[areaLower]; ok {
		return normalized
	}

	// Капитализируем каждое слово
	words := strings.Fields(areaLower)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
