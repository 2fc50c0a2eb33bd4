package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// MatchRepository определяет методы для работы с матчами кумитэ
type MatchRepository interface {
	CreateBatch(tx *gorm.DB, matches []entity.Match) error
	GetByID(id uint) (*entity.Match, error)
	GetByCategoryAndRound(categoryID uint, round string) ([]entity.Match, error)
	// FindParticipantsInRound возвращает участников из переданного списка,
	// уже занятых в матчах (категория, раунд).
	FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error)
	// SetWinner фиксирует победителя и переводит матч в статус completed
	SetWinner(id uint, winnerID uint) error
	UpdateStatus(id uint, status string) error
	// Reopen снимает победителя и возвращает матч в статус in_progress
	Reopen(id uint) error
	Delete(id uint) error
	DeleteByRound(categoryID uint, round string) error
}
