package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
)

// ParticipantRepository определяет методы чтения участников.
// Записи создаются внешней подсистемой регистраций, движок их не изменяет.
type ParticipantRepository interface {
	GetByID(id uint) (*entity.Participant, error)
	GetByIDs(ids []uint) ([]entity.Participant, error)
	GetByCategory(categoryID uint) ([]entity.Participant, error)
}

// CategoryRepository определяет методы чтения категорий турнира
type CategoryRepository interface {
	GetByID(id uint) (*entity.Category, error)
}
