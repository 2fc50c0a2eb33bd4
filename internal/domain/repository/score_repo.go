package repository

import (
	"github.com/yourusername/karate-api/internal/domain/entity"
	"gorm.io/gorm"
)

// KataScoreRepository определяет методы хранилища судейских оценок.
// Это единственный шов персистентности для сырого судейского ввода ката;
// бизнес-логики здесь нет.
type KataScoreRepository interface {
	// Upsert сохраняет оценку судьи; повторная отправка той же пары
	// (выступление, судья) перезаписывает предыдущее значение атомарно.
	// tx != nil означает выполнение в рамках внешней транзакции.
	Upsert(tx *gorm.DB, score *entity.KataScore) error
	ListByPerformance(tx *gorm.DB, performanceID uint) ([]entity.KataScore, error)
	DeleteByPerformanceAndJudge(tx *gorm.DB, performanceID, judgeID uint) error
	DeleteByPerformance(performanceID uint) error
	DeleteByRound(categoryID uint, round string) error
}
