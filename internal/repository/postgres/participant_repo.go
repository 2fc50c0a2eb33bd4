package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// GetByID возвращает участника по идентификатору
func (r *ParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.First(&participant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// GetByIDs возвращает участников по списку идентификаторов
func (r *ParticipantRepo) GetByIDs(ids []uint) ([]entity.Participant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var participants []entity.Participant
	err := r.db.Where("id IN ?", ids).Find(&participants).Error
	return participants, err
}

// GetByCategory возвращает всех зарегистрированных участников категории
func (r *ParticipantRepo) GetByCategory(categoryID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&participants).Error
	return participants, err
}

// CategoryRepo реализует repository.CategoryRepository
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo создает новый репозиторий категорий
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// GetByID возвращает категорию по идентификатору
func (r *CategoryRepo) GetByID(id uint) (*entity.Category, error) {
	var category entity.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}
