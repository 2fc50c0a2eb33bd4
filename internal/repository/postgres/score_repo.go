package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/karate-api/internal/domain/entity"
)

// KataScoreRepo реализует repository.KataScoreRepository
type KataScoreRepo struct {
	db *gorm.DB
}

// NewKataScoreRepo создает новый репозиторий судейских оценок
func NewKataScoreRepo(db *gorm.DB) *KataScoreRepo {
	return &KataScoreRepo{db: db}
}

// Upsert сохраняет оценку судьи одним атомарным оператором.
// ON CONFLICT по (performance_id, judge_id) дает last-writer-wins на ключ:
// параллельные оценки разных судей одного выступления не теряются.
// При tx != nil работает в рамках внешней транзакции пересчета.
func (r *KataScoreRepo) Upsert(tx *gorm.DB, score *entity.KataScore) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "performance_id"}, {Name: "judge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(score).Error
}

// ListByPerformance возвращает все оценки выступления в порядке подачи
func (r *KataScoreRepo) ListByPerformance(tx *gorm.DB, performanceID uint) ([]entity.KataScore, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var scores []entity.KataScore
	err := db.Where("performance_id = ?", performanceID).
		Order("judge_id ASC").
		Find(&scores).Error
	return scores, err
}

// DeleteByPerformanceAndJudge отзывает оценку конкретного судьи
func (r *KataScoreRepo) DeleteByPerformanceAndJudge(tx *gorm.DB, performanceID, judgeID uint) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Where("performance_id = ? AND judge_id = ?", performanceID, judgeID).
		Delete(&entity.KataScore{}).Error
}

// DeleteByPerformance удаляет все оценки выступления
func (r *KataScoreRepo) DeleteByPerformance(performanceID uint) error {
	return r.db.Where("performance_id = ?", performanceID).
		Delete(&entity.KataScore{}).Error
}

// DeleteByRound удаляет все оценки раунда категории
func (r *KataScoreRepo) DeleteByRound(categoryID uint, round string) error {
	return r.db.Where("performance_id IN (?)",
		r.db.Model(&entity.Performance{}).
			Select("id").
			Where("category_id = ? AND round = ?", categoryID, round),
	).Delete(&entity.KataScore{}).Error
}
