package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// PerformanceRepository определяет методы для работы с выступлениями ката
type PerformanceRepository interface {
	// CreateBatch создает набор выступлений одним вызовом.
	// tx != nil означает выполнение в рамках внешней транзакции.
	CreateBatch(tx *gorm.DB, performances []entity.Performance) error
	GetByID(id uint) (*entity.Performance, error)
	// GetForUpdate читает выступление под блокировкой строки
	// (SELECT ... FOR UPDATE). Сериализует пересчет итогового балла при
	// параллельной подаче оценок; вызывается только внутри транзакции.
	GetForUpdate(tx *gorm.DB, id uint) (*entity.Performance, error)
	GetByCategoryAndRound(categoryID uint, round string) ([]entity.Performance, error)
	// FindParticipantsInRound возвращает участников из переданного списка,
	// у которых уже есть выступление в (категория, раунд).
	FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error)
	// UpdateFinalScore записывает пересчитанный итоговый балл (или NULL).
	// Вызывается в той же транзакции, что и изменение набора оценок.
	UpdateFinalScore(tx *gorm.DB, id uint, finalScore *float64) error
	// UpdatePlaces проставляет занятые места по идентификаторам выступлений
	UpdatePlaces(tx *gorm.DB, places map[uint]int) error
	GetPlacements(categoryID uint) ([]entity.Performance, error)
	Delete(id uint) error
	DeleteByRound(categoryID uint, round string) error
}
