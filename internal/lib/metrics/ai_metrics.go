package metrics

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// AIMetrics — метрики вызовов подбора рекомендаций (LLM).
type AIMetrics struct {
	log *slog.Logger

	// Счётчики вызовов и ошибок
	llmCallsTotal  int64
	llmErrorsTotal int64
	// Деградации: ответ получен, но не разобран
	llmDegradedTotal int64

	// Суммарная задержка (для расчёта среднего) и последняя задержка
	llmLatencyTotalMs int64
	llmLastLatencyMs  int64
}

var (
	globalMetrics *AIMetrics
	metricsOnce   sync.Once
)

// GetAIMetrics возвращает глобальный экземпляр метрик.
func GetAIMetrics(log *slog.Logger) *AIMetrics {
	metricsOnce.Do(func() {
		globalMetrics = &AIMetrics{log: log}
	})
	return globalMetrics
}

// RecordCall записывает вызов LLM.
func (m *AIMetrics) RecordCall(latency time.Duration, err error) {
	latencyMs := latency.Milliseconds()

	atomic.AddInt64(&m.llmCallsTotal, 1)
	atomic.AddInt64(&m.llmLatencyTotalMs, latencyMs)
	atomic.StoreInt64(&m.llmLastLatencyMs, latencyMs)
	if err != nil {
		atomic.AddInt64(&m.llmErrorsTotal, 1)
	}

	if m.log != nil {
		logAttrs := []any{
			slog.Int64("latency_ms", latencyMs),
		}
		if err != nil {
			logAttrs = append(logAttrs, slog.String("error", err.Error()))
			m.log.Warn("LLM call failed", logAttrs...)
		} else {
			m.log.Debug("LLM call completed", logAttrs...)
		}
	}
}

// RecordDegraded записывает деградацию: ответ модели не удалось разобрать.
func (m *AIMetrics) RecordDegraded() {
	atomic.AddInt64(&m.llmDegradedTotal, 1)
}

// AICallTimer помогает измерять время вызовов.
type AICallTimer struct {
	metrics   *AIMetrics
	startTime time.Time
}

// StartTimer начинает измерение времени вызова.
func (m *AIMetrics) StartTimer() *AICallTimer {
	return &AICallTimer{
		metrics:   m,
		startTime: time.Now(),
	}
}

// Stop останавливает таймер и записывает метрики.
func (t *AICallTimer) Stop(err error) {
	t.metrics.RecordCall(time.Since(t.startTime), err)
}

// Stats — текущая статистика по вызовам LLM.
type Stats struct {
	CallsTotal    int64   `json:"calls_total"`
	ErrorsTotal   int64   `json:"errors_total"`
	DegradedTotal int64   `json:"degraded_total"`
	ErrorRate     float64 `json:"error_rate"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
	LastLatencyMs int64   `json:"last_latency_ms"`
}

// GetStats возвращает текущую статистику.
func (m *AIMetrics) GetStats() Stats {
	calls := atomic.LoadInt64(&m.llmCallsTotal)
	errorsTotal := atomic.LoadInt64(&m.llmErrorsTotal)
	latencyTotal := atomic.LoadInt64(&m.llmLatencyTotalMs)

	var errorRate, avgLatency float64
	if calls > 0 {
		errorRate = float64(errorsTotal) / float64(calls)
		avgLatency = float64(latencyTotal) / float64(calls)
	}

	return Stats{
		CallsTotal:    calls,
		ErrorsTotal:   errorsTotal,
		DegradedTotal: atomic.LoadInt64(&m.llmDegradedTotal),
		ErrorRate:     errorRate,
		AvgLatencyMs:  avgLatency,
		LastLatencyMs: atomic.LoadInt64(&m.llmLastLatencyMs),
	}
}
