package entity

import (
	"time"
)

// Названия раундов ката в порядке прохождения сетки
const (
	RoundFirst  = "First Round"
	RoundSecond = "Second Round (Final 8)"
	RoundThird  = "Third Round (Final 4)"
)

// Константы производного состояния судейства выступления
const (
	ScoringStateOpen            = "open"             // Создано, оценок нет
	ScoringStatePartiallyScored = "partially_scored" // Есть оценки, но меньше трех
	ScoringStateDecidable       = "decidable"        // Итоговый балл вычислим
	ScoringStateFinalized       = "finalized"        // Балл зафиксирован финализацией раунда
)

// NextKataRound возвращает следующий раунд после указанного и требуемое
// число прошедших участников. Для финального раунда возвращает ("", 0).
func NextKataRound(round string) (string, int) {
	switch round {
	case RoundFirst:
		return RoundSecond, 8
	case RoundSecond:
		return RoundThird, 4
	default:
		return "", 0
	}
}

// IsValidRound проверяет, что название раунда известно движку
func IsValidRound(round string) bool {
	return round == RoundFirst || round == RoundSecond || round == RoundThird
}

// Performance представляет одно сольное выступление участника в раунде категории.
// FinalScore не nil тогда и только тогда, когда выступление оценили не менее
// трех судей; значение всегда пересчитывается заново по полному набору оценок.
// Place заполняется только в финальном раунде (1, 2, 3 и 3 за разделенную бронзу).
type Performance struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	CategoryID       uint        `gorm:"not null;index:idx_category_round" json:"category_id"`
	ParticipantID    uint        `gorm:"not null;index" json:"participant_id"`
	Round            string      `gorm:"size:40;not null;index:idx_category_round" json:"round"`
	PerformanceOrder int         `gorm:"not null;default:0" json:"performance_order"`
	FinalScore       *float64    `json:"final_score"`
	Place            *int        `json:"place"`
	Scores           []KataScore `gorm:"foreignKey:PerformanceID" json:"scores,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Performance) TableName() string {
	return "performances"
}

// IsDecidable проверяет, достаточно ли оценок для вычисления итогового балла
func (p *Performance) IsDecidable() bool {
	return len(p.Scores) >= MinScoresForFinal
}

// ScoringState возвращает производное состояние судейства выступления.
// finalized передается снаружи: признак финализации хранится на уровне раунда.
func (p *Performance) ScoringState(finalized bool) string {
	switch {
	case finalized:
		return ScoringStateFinalized
	case p.IsDecidable():
		return ScoringStateDecidable
	case len(p.Scores) > 0:
		return ScoringStatePartiallyScored
	default:
		return ScoringStateOpen
	}
}

// ScoreValues возвращает значения всех текущих оценок выступления
func (p *Performance) ScoreValues() []float64 {
	values := make([]float64, 0, len(p.Scores))
	for _, s := range p.Scores {
		values = append(values, s.Value)
	}
	return values
}
