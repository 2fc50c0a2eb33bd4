package entity

import (
	"time"
)

// Константы статусов матча кумитэ
const (
	MatchStatusScheduled  = "scheduled"
	MatchStatusInProgress = "in_progress"
	MatchStatusCompleted  = "completed"
)

// Match представляет поединок кумитэ внутри раунда категории.
// Матч ровно с одним участником — это "bye": единственный участник
// побеждает без вычисления очков, матч сразу переходит в completed.
type Match struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CategoryID    uint       `gorm:"not null;index:idx_match_category_round" json:"category_id"`
	Round         string     `gorm:"size:40;not null;index:idx_match_category_round" json:"round"`
	MatchOrder    int        `gorm:"not null;default:0" json:"match_order"`
	IsTeam        bool       `gorm:"not null;default:false" json:"is_team"`
	AkaID         uint       `gorm:"not null;index" json:"aka_id"`             // Красный угол
	AoID          *uint      `gorm:"index" json:"ao_id"`                       // Синий угол; nil для bye
	Status        string     `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	WinnerID      *uint      `json:"winner_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Match) TableName() string {
	return "matches"
}

// IsBye проверяет, является ли матч проходом без соперника
func (m *Match) IsBye() bool {
	return m.AoID == nil
}

// IsCompleted проверяет, завершен ли матч
func (m *Match) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

// HasParticipant проверяет, участвует ли спортсмен в матче
func (m *Match) HasParticipant(participantID uint) bool {
	if m.AkaID == participantID {
		return true
	}
	return m.AoID != nil && *m.AoID == participantID
}

// ParticipantIDs возвращает идентификаторы участников матча (1 или 2)
func (m *Match) ParticipantIDs() []uint {
	ids := []uint{m.AkaID}
	if m.AoID != nil {
		ids = append(ids, *m.AoID)
	}
	return ids
}
