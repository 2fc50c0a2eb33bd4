package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// KumiteTallyRepository определяет методы для работы со счетчиками кумитэ
type KumiteTallyRepository interface {
	GetByMatch(matchID uint) ([]entity.KumiteTally, error)
	// GetForUpdate читает счетчик под блокировкой строки (SELECT ... FOR UPDATE).
	// Возвращает ErrNotFound, если строки еще нет; вызывается только внутри транзакции.
	GetForUpdate(tx *gorm.DB, matchID, participantID uint) (*entity.KumiteTally, error)
	// Save создает или обновляет счетчик в рамках переданной транзакции.
	// Нарушение уникальности (match_id, participant_id) при первой вставке
	// транслируется в ErrConflict.
	Save(tx *gorm.DB, tally *entity.KumiteTally) error
	DeleteByMatch(matchID uint) error
}
