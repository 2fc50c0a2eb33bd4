package entity

import (
	"time"
)

// RoundFinalization — долговременная отметка о финализации раунда категории.
// Уникальный индекс по (category_id, round) гарантирует "не более одного раза":
// повторная финализация не может создать второй набор сущностей следующего
// раунда, даже если распределенная блокировка была потеряна.
type RoundFinalization struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_finalized_category_round" json:"category_id"`
	Round      string    `gorm:"size:40;not null;uniqueIndex:idx_finalized_category_round" json:"round"`
	NextRound  string    `gorm:"size:40;not null;default:''" json:"next_round"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (RoundFinalization) TableName() string {
	return "round_finalizations"
}
