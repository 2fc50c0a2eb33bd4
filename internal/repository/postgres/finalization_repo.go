package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// Код ошибки PostgreSQL "unique_violation"
const pgUniqueViolation = "23505"

// RoundFinalizationRepo реализует repository.RoundFinalizationRepository
type RoundFinalizationRepo struct {
	db *gorm.DB
}

// NewRoundFinalizationRepo создает новый репозиторий отметок о финализации
func NewRoundFinalizationRepo(db *gorm.DB) *RoundFinalizationRepo {
	return &RoundFinalizationRepo{db: db}
}

// Get возвращает отметку о финализации раунда или ErrNotFound
func (r *RoundFinalizationRepo) Get(categoryID uint, round string) (*entity.RoundFinalization, error) {
	var finalization entity.RoundFinalization
	err := r.db.Where("category_id = ? AND round = ?", categoryID, round).
		First(&finalization).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &finalization, nil
}

// Create вставляет отметку о финализации. Нарушение уникального индекса
// (category_id, round) означает конкурентную или повторную финализацию
// и транслируется в ErrConflict.
func (r *RoundFinalizationRepo) Create(tx *gorm.DB, finalization *entity.RoundFinalization) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	err := db.Create(finalization).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// Delete снимает отметку о финализации (административная корректировка)
func (r *RoundFinalizationRepo) Delete(categoryID uint, round string) error {
	return r.db.Where("category_id = ? AND round = ?", categoryID, round).
		Delete(&entity.RoundFinalization{}).Error
}
