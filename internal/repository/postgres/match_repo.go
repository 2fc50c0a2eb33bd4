package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// MatchRepo реализует repository.MatchRepository
type MatchRepo struct {
	db *gorm.DB
}

// NewMatchRepo создает новый репозиторий матчей
func NewMatchRepo(db *gorm.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// CreateBatch создает набор матчей, при tx != nil — в рамках внешней транзакции
func (r *MatchRepo) CreateBatch(tx *gorm.DB, matches []entity.Match) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(&matches).Error
}

// GetByID возвращает матч по идентификатору
func (r *MatchRepo) GetByID(id uint) (*entity.Match, error) {
	var match entity.Match
	err := r.db.First(&match, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &match, nil
}

// GetByCategoryAndRound возвращает все матчи раунда в порядке сетки
func (r *MatchRepo) GetByCategoryAndRound(categoryID uint, round string) ([]entity.Match, error) {
	var matches []entity.Match
	err := r.db.Where("category_id = ? AND round = ?", categoryID, round).
		Order("match_order ASC").
		Find(&matches).Error
	return matches, err
}

// FindParticipantsInRound возвращает участников из списка, уже занятых
// в матчах данного раунда категории (в любом углу)
func (r *MatchRepo) FindParticipantsInRound(categoryID uint, round string, participantIDs []uint) ([]uint, error) {
	if len(participantIDs) == 0 {
		return nil, nil
	}
	var matches []entity.Match
	err := r.db.Where("category_id = ? AND round = ? AND (aka_id IN ? OR ao_id IN ?)",
		categoryID, round, participantIDs, participantIDs).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	requested := make(map[uint]bool, len(participantIDs))
	for _, id := range participantIDs {
		requested[id] = true
	}
	var existing []uint
	for _, m := range matches {
		for _, id := range m.ParticipantIDs() {
			if requested[id] {
				existing = append(existing, id)
			}
		}
	}
	return existing, nil
}

// SetWinner фиксирует победителя и переводит матч в статус completed
func (r *MatchRepo) SetWinner(id uint, winnerID uint) error {
	result := r.db.Model(&entity.Match{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"winner_id": winnerID,
			"status":    entity.MatchStatusCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateStatus изменяет статус матча
func (r *MatchRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.Match{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Reopen снимает победителя и возвращает матч в статус in_progress.
// Используется для явного переоткрытия завершенного матча (спорный исход).
func (r *MatchRepo) Reopen(id uint) error {
	result := r.db.Model(&entity.Match{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"winner_id": nil,
			"status":    entity.MatchStatusInProgress,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет матч
func (r *MatchRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Match{}, id).Error
}

// DeleteByRound удаляет все матчи раунда категории
func (r *MatchRepo) DeleteByRound(categoryID uint, round string) error {
	return r.db.Where("category_id = ? AND round = ?", categoryID, round).
		Delete(&entity.Match{}).Error
}
