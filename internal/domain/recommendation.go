package domain

// MatchStatus — исход подбора рекомендаций.
type MatchStatus string

const (
	// MatchStatusOK — подбор выполнен штатно (пустой список = нет подходящих объектов)
	MatchStatusOK MatchStatus = "ok"
	// MatchStatusDegraded — ответ модели не удалось разобрать, выдача деградировала
	// до пустого списка; причина в DegradedReason
	MatchStatusDegraded MatchStatus = "degraded"
)

// PropertyMatch — рекомендованный объект с оценкой и причинами.
type PropertyMatch struct {
	Property Property `json:"property"`
	// MatchScore — оценка соответствия 0-100
	MatchScore int `json:"matchScore"`
	// Reasons — человекочитаемые причины рекомендации
	Reasons []string `json:"reasons"`
}

// MatchResult — результат подбора. Статус позволяет отличить "нет совпадений"
// от "ответ модели неразборчив".
type MatchResult struct {
	Status         MatchStatus     `json:"status"`
	DegradedReason string          `json:"degraded_reason,omitempty"`
	Matches        []PropertyMatch `json:"matches"`
}
