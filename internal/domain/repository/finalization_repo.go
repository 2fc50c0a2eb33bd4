package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// RoundFinalizationRepository определяет методы для работы с отметками
// о финализации раундов
type RoundFinalizationRepository interface {
	// Get возвращает отметку о финализации или ErrNotFound
	Get(categoryID uint, round string) (*entity.RoundFinalization, error)
	// Create вставляет отметку в рамках транзакции; нарушение уникального
	// индекса (category_id, round) транслируется в ErrConflict.
	Create(tx *gorm.DB, finalization *entity.RoundFinalization) error
	Delete(categoryID uint, round string) error
}
