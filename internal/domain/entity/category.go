package entity

import (
	"time"

	"github.com/lib/pq"
)

// Константы дисциплин категории
const (
	DisciplineKata       = "kata"
	DisciplineKumite     = "kumite"
	DisciplineTeamKata   = "team_kata"
	DisciplineTeamKumite = "team_kumite"
)

// Category представляет соревновательную категорию турнира.
// Сами категории создаются внешней подсистемой (CRUD турниров);
// движок читает их только для валидации и определения дисциплины.
type Category struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	TournamentID uint          `gorm:"not null;index" json:"tournament_id"`
	Name         string        `gorm:"size:100;not null" json:"name"`
	Discipline   string        `gorm:"size:20;not null;index" json:"discipline"`
	JudgeIDs     pq.Int64Array `gorm:"type:bigint[]" json:"judge_ids"` // Назначенный состав судей (только для отображения/валидации)
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// IsKata проверяет, является ли дисциплина категорией ката (соло или командной)
func (c *Category) IsKata() bool {
	return c.Discipline == DisciplineKata || c.Discipline == DisciplineTeamKata
}

// IsKumite проверяет, является ли дисциплина категорией кумитэ
func (c *Category) IsKumite() bool {
	return c.Discipline == DisciplineKumite || c.Discipline == DisciplineTeamKumite
}

// HasJudge проверяет, входит ли судья в назначенный состав категории
func (c *Category) HasJudge(judgeID uint) bool {
	for _, id := range c.JudgeIDs {
		if uint(id) == judgeID {
			return true
		}
	}
	return false
}
