package property_repository

import (
	"strings"
	"testing"

	"rentkenya/internal/domain"
)

// Курсор хранит пару (created_at, id), поэтому и предикат keyset,
// и ORDER BY обязаны сравнивать ровно эти столбцы — иначе вторая
// страница столкнёт timestamptz с колонкой другого типа.
func TestKeysetClause_MatchesCursorColumns(t *testing.T) {
	tests := []struct {
		name     string
		orderDir domain.OrderDirection
		want     string
	}{
		{"desc", domain.OrderDesc, "(created_at, property_id) < ($3, $4)"},
		{"asc", domain.OrderAsc, "(created_at, property_id) > ($3, $4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keysetClause(tt.orderDir, 3); got != tt.want {
				t.Errorf("keysetClause(%s) = %q, want %q", tt.orderDir, got, tt.want)
			}
		})
	}
}

func TestOrderClause_FixedToCreatedAt(t *testing.T) {
	for _, dir := range []domain.OrderDirection{domain.OrderAsc, domain.OrderDesc} {
		clause := orderClause(dir)
		if !strings.Contains(clause, "created_at") || !strings.Contains(clause, "property_id") {
			t.Errorf("orderClause(%s) = %q, must order by (created_at, property_id)", dir, clause)
		}
		for _, col := range []string{"price", "title", "view_count"} {
			if strings.Contains(clause, col) {
				t.Errorf("orderClause(%s) must not order by %s: %q", dir, col, clause)
			}
		}
	}
}
