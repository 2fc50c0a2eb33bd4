package entity

import (
	"time"
)

// Participant представляет участника (спортсмена или команду) в одной категории.
// Запись принадлежит внешней подсистеме регистраций; движок читает только
// идентификатор и отображаемые метаданные (имя, пояс).
type Participant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Belt        string    `gorm:"size:30;not null;default:''" json:"belt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}
