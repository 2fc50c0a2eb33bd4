package entity

import (
	"sort"
	"time"
)

// Границы допустимой судейской оценки в ката
const (
	KataScoreMin = 5.0
	KataScoreMax = 10.0
)

// Минимальное число оценок, при котором итоговый балл выступления определен
const MinScoresForFinal = 3

// KataScore представляет одну судейскую оценку выступления.
// Пара (performance_id, judge_id) уникальна: повторная отправка судьей
// перезаписывает его предыдущую оценку (upsert), а не добавляет новую.
type KataScore struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PerformanceID uint      `gorm:"not null;index;uniqueIndex:idx_performance_judge" json:"performance_id"`
	JudgeID       uint      `gorm:"not null;uniqueIndex:idx_performance_judge" json:"judge_id"`
	Value         float64   `gorm:"not null" json:"value"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (KataScore) TableName() string {
	return "kata_scores"
}

// IsValidKataScore проверяет, лежит ли оценка в допустимом диапазоне [5.0, 10.0]
func IsValidKataScore(value float64) bool {
	return value >= KataScoreMin && value <= KataScoreMax
}

// TrimmedSum вычисляет итоговый балл выступления по правилу усеченной суммы.
// Возвращает nil, если оценок меньше трех (балл не определен).
//
// Правило:
//   - ровно 3 оценки: сумма всех трех;
//   - ровно 4 оценки: отбрасываются минимальная и максимальная, сумма двух оставшихся;
//   - 5 и более: отбрасываются одна минимальная и одна максимальная,
//     суммируются 3 старшие из оставшихся (для панели из 5 судей — 3 средние).
//
// Функция чистая: повторный вызов на том же наборе оценок дает тот же результат.
func TrimmedSum(values []float64) *float64 {
	if len(values) < MinScoresForFinal {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var kept []float64
	if len(sorted) == MinScoresForFinal {
		kept = sorted
	} else {
		// Отбрасываем одну минимальную и одну максимальную оценку
		kept = sorted[1 : len(sorted)-1]
		if len(kept) > 3 {
			kept = kept[len(kept)-3:]
		}
	}

	total := 0.0
	for _, v := range kept {
		total += v
	}
	return &total
}
