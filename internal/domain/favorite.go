package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite — закладка (user, property). Пара уникальна, жизненный цикл —
// только создание при включении и удаление при выключении.
type Favorite struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ComparisonLimit — максимум объектов в списке сравнения.
const ComparisonLimit = 4
