package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// KumiteTallyRepo реализует repository.KumiteTallyRepository
type KumiteTallyRepo struct {
	db *gorm.DB
}

// NewKumiteTallyRepo создает новый репозиторий счетчиков кумитэ
func NewKumiteTallyRepo(db *gorm.DB) *KumiteTallyRepo {
	return &KumiteTallyRepo{db: db}
}

// GetByMatch возвращает счетчики всех участников матча
func (r *KumiteTallyRepo) GetByMatch(matchID uint) ([]entity.KumiteTally, error) {
	var tallies []entity.KumiteTally
	err := r.db.Where("match_id = ?", matchID).
		Order("participant_id ASC").
		Find(&tallies).Error
	return tallies, err
}

// GetForUpdate читает счетчик под блокировкой строки (SELECT ... FOR UPDATE).
// Сериализует read-modify-write двух секретарей на одном матче: второй
// ждет коммита первого и видит уже обновленное значение.
func (r *KumiteTallyRepo) GetForUpdate(tx *gorm.DB, matchID, participantID uint) (*entity.KumiteTally, error) {
	var tally entity.KumiteTally
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("match_id = ? AND participant_id = ?", matchID, participantID).
		First(&tally).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &tally, nil
}

// Save создает или обновляет счетчик в рамках переданной транзакции.
// Нарушение уникального индекса (match_id, participant_id) означает, что
// два секретаря параллельно вставили самый первый счетчик участника:
// строки для блокировки еще не было. Транслируется в ErrConflict.
func (r *KumiteTallyRepo) Save(tx *gorm.DB, tally *entity.KumiteTally) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	err := db.Save(tally).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// DeleteByMatch удаляет все счетчики матча
func (r *KumiteTallyRepo) DeleteByMatch(matchID uint) error {
	return r.db.Where("match_id = ?", matchID).
		Delete(&entity.KumiteTally{}).Error
}
