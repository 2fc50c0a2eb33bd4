package entity

import (
	"time"
)

// Стоимость оценочных действий в очках
const (
	PointsYuko    = 1.0
	PointsWazaAri = 2.0
	PointsIppon   = 3.0
)

// Величина вычета за каждый вид нарушения
const (
	DeductionChukoku     = 0.5
	DeductionKeikoku     = 1.0
	DeductionHansokuChui = 1.5
	DeductionHansoku     = 2.0
	DeductionJogai       = 0.25
)

// Границы результирующего балла участника в матче
const (
	KumiteScoreMin = 0.0
	KumiteScoreMax = 10.0
)

// Имена инкрементируемых полей счетчика (значение поля delta в API)
const (
	TallyFieldYuko        = "yuko"
	TallyFieldWazaAri     = "waza_ari"
	TallyFieldIppon       = "ippon"
	TallyFieldChukoku     = "chukoku"
	TallyFieldKeikoku     = "keikoku"
	TallyFieldHansokuChui = "hansoku_chui"
	TallyFieldHansoku     = "hansoku"
	TallyFieldJogai       = "jogai"
)

// KumiteTally представляет авторитетный счетчик событий одного участника в матче.
// На пару (match_id, participant_id) хранится ровно одна строка: секретариат
// ведет единый согласованный счет, последнее сохранение авторитетно.
// LastJudgeID — только след для аудита, не судейская атрибуция.
type KumiteTally struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	MatchID       uint `gorm:"not null;index;uniqueIndex:idx_match_participant" json:"match_id"`
	ParticipantID uint `gorm:"not null;uniqueIndex:idx_match_participant" json:"participant_id"`

	// Оценочные действия
	Yuko    int `gorm:"not null;default:0" json:"yuko"`
	WazaAri int `gorm:"not null;default:0" json:"waza_ari"`
	Ippon   int `gorm:"not null;default:0" json:"ippon"`

	// Нарушения. Категории (контактные/поведенческие) — только разбиение
	// для отображения и аудита, вычет считается одинаково по обеим.
	Chukoku     int `gorm:"not null;default:0" json:"chukoku"`
	Keikoku     int `gorm:"not null;default:0" json:"keikoku"`
	HansokuChui int `gorm:"not null;default:0" json:"hansoku_chui"`
	Hansoku     int `gorm:"not null;default:0" json:"hansoku"`
	Jogai       int `gorm:"not null;default:0" json:"jogai"`

	LastJudgeID *uint     `json:"last_judge_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (KumiteTally) TableName() string {
	return "kumite_tallies"
}

// PointTotal возвращает сумму очков за оценочные действия: юко 1, ваза-ари 2, иппон 3
func (t *KumiteTally) PointTotal() float64 {
	return float64(t.Yuko)*PointsYuko + float64(t.WazaAri)*PointsWazaAri + float64(t.Ippon)*PointsIppon
}

// PenaltyDeduction возвращает суммарный вычет за нарушения
func (t *KumiteTally) PenaltyDeduction() float64 {
	return float64(t.Chukoku)*DeductionChukoku +
		float64(t.Keikoku)*DeductionKeikoku +
		float64(t.HansokuChui)*DeductionHansokuChui +
		float64(t.Hansoku)*DeductionHansoku +
		float64(t.Jogai)*DeductionJogai
}

// Score возвращает результирующий балл участника: очки минус вычеты,
// ограниченные диапазоном [0, 10]
func (t *KumiteTally) Score() float64 {
	score := t.PointTotal() - t.PenaltyDeduction()
	if score < KumiteScoreMin {
		return KumiteScoreMin
	}
	if score > KumiteScoreMax {
		return KumiteScoreMax
	}
	return score
}

// FieldRef возвращает указатель на счетчик по имени поля.
// Второе значение false, если имя поля неизвестно.
func (t *KumiteTally) FieldRef(field string) (*int, bool) {
	switch field {
	case TallyFieldYuko:
		return &t.Yuko, true
	case TallyFieldWazaAri:
		return &t.WazaAri, true
	case TallyFieldIppon:
		return &t.Ippon, true
	case TallyFieldChukoku:
		return &t.Chukoku, true
	case TallyFieldKeikoku:
		return &t.Keikoku, true
	case TallyFieldHansokuChui:
		return &t.HansokuChui, true
	case TallyFieldHansoku:
		return &t.Hansoku, true
	case TallyFieldJogai:
		return &t.Jogai, true
	default:
		return nil, false
	}
}
