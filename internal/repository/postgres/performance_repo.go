package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// PerformanceRepo реализует repository.PerformanceRepository
type PerformanceRepo struct {
	db *gorm.DB
}

// NewPerformanceRepo создает новый репозиторий выступлений
func NewPerformanceRepo(db *gorm.DB) *PerformanceRepo {
	return &PerformanceRepo{db: db}
}

// CreateBatch создает набор выступлений. При tx != nil работает в рамках
// внешней транзакции (используется при создании раунда "все или ничего").
func (r *PerformanceRepo) CreateBatch(tx *gorm.DB, performances []entity.Performance) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(&performances).Error
}

// GetByID возвращает выступление вместе с текущим набором оценок
func (r *PerformanceRepo) GetByID(id uint) (*entity.Performance, error) {
	var performance entity.Performance
	err := r.db.Preload("Scores").First(&performance, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &performance, nil
}

// GetForUpdate читает выступление под блокировкой строки (SELECT ... FOR UPDATE).
// Сериализует цепочку "изменить оценки — пересчитать балл": второй судья
// ждет коммита первого и пересчитывает уже по полному набору оценок.
func (r *PerformanceRepo) GetForUpdate(tx *gorm.DB, id uint) (*entity.Performance, error) {
	var performance entity.Performance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&performance, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &performance, nil
}

// GetByCategoryAndRound возвращает все выступления раунда, упорядоченные
// по порядку выхода
func (r *PerformanceRepo) GetByCategoryAndRound(categoryID uint, round string) ([]entity.Performance, error) {
	var performances []entity.Performance
	err := r.db.Preload("Scores").
		Where("category_id = ? AND round = ?", categoryID, round).
		Order("performance_order ASC").
		Find(&performances).Error
	return performances, err
}

// FindParticipantsInRound возвращает участников из списка, у которых уже есть
// выступление в данном раунде категории
func (r *PerformanceRepo) FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error) {
	if len(participantIDs) == 0 {
		return nil, nil
	}
	var existing []uint
	err := r.db.Model(&entity.Performance{}).
		Where("category_id = ? AND round = ? AND participant_id IN ?", categoryID, round, participantIDs).
		Pluck("participant_id", &existing).Error
	return existing, err
}

// UpdateFinalScore записывает пересчитанный итоговый балл (или NULL).
// При tx != nil работает в рамках внешней транзакции пересчета.
func (r *PerformanceRepo) UpdateFinalScore(tx *gorm.DB, id uint, finalScore *float64) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.Model(&entity.Performance{}).
		Where("id = ?", id).
		Update("final_score", finalScore)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePlaces проставляет занятые места по идентификаторам выступлений.
// Выполняется в рамках транзакции финализации.
func (r *PerformanceRepo) UpdatePlaces(tx *gorm.DB, places map[uint]int) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	for performanceID, place := range places {
		err := db.Model(&entity.Performance{}).
			Where("id = ?", performanceID).
			Update("place", place).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// GetPlacements возвращает выступления категории с назначенными местами,
// упорядоченные по месту
func (r *PerformanceRepo) GetPlacements(categoryID uint) ([]entity.Performance, error) {
	var performances []entity.Performance
	err := r.db.Where("category_id = ? AND place IS NOT NULL", categoryID).
		Order("place ASC, performance_order ASC").
		Find(&performances).Error
	return performances, err
}

// Delete удаляет выступление
func (r *PerformanceRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Performance{}, id).Error
}

// DeleteByRound удаляет все выступления раунда категории
func (r *PerformanceRepo) DeleteByRound(categoryID uint, round string) error {
	return r.db.Where("category_id = ? AND round = ?", categoryID, round).
		Delete(&entity.Performance{}).Error
}
