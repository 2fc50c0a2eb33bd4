package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	"github.com/yourusername/karate-api/internal/domain/repository"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// KataService предоставляет операции судейства ката: прием оценок,
// пересчет итогового балла по усеченной сумме, выдача выступлений.
type KataService struct {
	performanceRepo  repository.PerformanceRepository
	scoreRepo        repository.KataScoreRepository
	categoryRepo     repository.CategoryRepository
	finalizationRepo repository.RoundFinalizationRepository
	cacheRepo        repository.CacheRepository
	db               *gorm.DB
	cacheTTL         time.Duration
}

// NewKataService создает новый сервис судейства ката
func NewKataService(
	performanceRepo repository.PerformanceRepository,
	scoreRepo repository.KataScoreRepository,
	categoryRepo repository.CategoryRepository,
	finalizationRepo repository.RoundFinalizationRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
	cacheTTL time.Duration,
) *KataService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &KataService{
		performanceRepo:  performanceRepo,
		scoreRepo:        scoreRepo,
		categoryRepo:     categoryRepo,
		finalizationRepo: finalizationRepo,
		cacheRepo:        cacheRepo,
		db:               db,
		cacheTTL:         cacheTTL,
	}
}

// SubmitScore принимает (или перезаписывает) оценку судьи за выступление и
// заново пересчитывает итоговый балл по полному набору оценок.
// Запись оценки и пересчет выполняются в одной транзакции под блокировкой
// строки выступления: параллельные подачи двух судей не могут записать
// балл, вычисленный по устаревшему набору оценок.
func (s *KataService) SubmitScore(ctx context.Context, performanceID, judgeID uint, value float64) (*entity.KataScore, error) {
	if !entity.IsValidKataScore(value) {
		return nil, fmt.Errorf("%w: score %.2f is outside [%.1f, %.1f]",
			apperrors.ErrValidation, value, entity.KataScoreMin, entity.KataScoreMax)
	}

	performance, err := s.performanceRepo.GetByID(performanceID)
	if err != nil {
		return nil, err
	}

	// Финализированный раунд неизменяем: новые оценки отклоняются
	if err := s.ensureRoundOpen(performance.CategoryID, performance.Round); err != nil {
		return nil, err
	}

	// Состав судей категории используется как валидация подающего судьи;
	// сама авторизация — забота внешнего слоя.
	category, err := s.categoryRepo.GetByID(performance.CategoryID)
	if err != nil {
		return nil, err
	}
	if len(category.JudgeIDs) > 0 && !category.HasJudge(judgeID) {
		return nil, fmt.Errorf("%w: judge %d is not assigned to category %d",
			apperrors.ErrValidation, judgeID, category.ID)
	}

	score := &entity.KataScore{
		PerformanceID: performanceID,
		JudgeID:       judgeID,
		Value:         value,
	}
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.performanceRepo.GetForUpdate(tx, performanceID); err != nil {
			return err
		}
		if err := s.scoreRepo.Upsert(tx, score); err != nil {
			return fmt.Errorf("failed to upsert score: %w", err)
		}
		return s.recalculateLocked(tx, performanceID)
	})
	if err != nil {
		return nil, err
	}
	s.invalidatePerformance(performanceID)

	log.Printf("[KataService] Судья #%d поставил %.2f выступлению #%d", judgeID, value, performanceID)
	return score, nil
}

// RetractScore отзывает оценку судьи (административная корректировка)
// и пересчитывает итоговый балл в той же транзакции.
func (s *KataService) RetractScore(ctx context.Context, performanceID, judgeID uint) error {
	performance, err := s.performanceRepo.GetByID(performanceID)
	if err != nil {
		return err
	}
	if err := s.ensureRoundOpen(performance.CategoryID, performance.Round); err != nil {
		return err
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.performanceRepo.GetForUpdate(tx, performanceID); err != nil {
			return err
		}
		if err := s.scoreRepo.DeleteByPerformanceAndJudge(tx, performanceID, judgeID); err != nil {
			return fmt.Errorf("failed to delete score: %w", err)
		}
		return s.recalculateLocked(tx, performanceID)
	})
	if err != nil {
		return err
	}
	s.invalidatePerformance(performanceID)

	log.Printf("[KataService] Оценка судьи #%d снята с выступления #%d", judgeID, performanceID)
	return nil
}

// GetPerformance возвращает выступление с текущими оценками и итоговым баллом.
// Читает сквозь кеш: запись инвалидируется при каждом изменении оценок.
func (s *KataService) GetPerformance(performanceID uint) (*entity.Performance, error) {
	cacheKey := performanceCacheKey(performanceID)

	var cached entity.Performance
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	performance, err := s.performanceRepo.GetByID(performanceID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(cacheKey, performance, s.cacheTTL); err != nil {
		// Кеш — не источник истины, его ошибки не фатальны
		log.Printf("[KataService] Ошибка записи выступления #%d в кеш: %v", performanceID, err)
	}
	return performance, nil
}

// RoundFinalized проверяет, финализирован ли раунд выступления
func (s *KataService) RoundFinalized(categoryID uint, round string) (bool, error) {
	err := s.ensureRoundOpen(categoryID, round)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, ErrRoundFinalized) {
		return true, nil
	}
	return false, err
}

// recalculateLocked заново вычисляет итоговый балл выступления по полному
// набору оценок и сохраняет его. Балл никогда не патчится инкрементально.
// Вызывается только внутри транзакции, удерживающей блокировку строки
// выступления.
func (s *KataService) recalculateLocked(tx *gorm.DB, performanceID uint) error {
	scores, err := s.scoreRepo.ListByPerformance(tx, performanceID)
	if err != nil {
		return fmt.Errorf("failed to list scores: %w", err)
	}

	values := make([]float64, 0, len(scores))
	for _, sc := range scores {
		values = append(values, sc.Value)
	}
	final := entity.TrimmedSum(values)

	if err := s.performanceRepo.UpdateFinalScore(tx, performanceID, final); err != nil {
		return fmt.Errorf("failed to update final score: %w", err)
	}
	return nil
}

// invalidatePerformance снимает кешированное выступление после изменения
func (s *KataService) invalidatePerformance(performanceID uint) {
	if err := s.cacheRepo.Delete(performanceCacheKey(performanceID)); err != nil {
		log.Printf("[KataService] Ошибка инвалидации кеша выступления #%d: %v", performanceID, err)
	}
}

// transaction выполняет fn в транзакции базы данных. При nil db (юнит-тесты
// на моках репозиториев) fn выполняется без транзакции.
func (s *KataService) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// ensureRoundOpen возвращает ErrRoundFinalized, если раунд уже финализирован
func (s *KataService) ensureRoundOpen(categoryID uint, round string) error {
	_, err := s.finalizationRepo.Get(categoryID, round)
	if err == nil {
		return ErrRoundFinalized
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func performanceCacheKey(performanceID uint) string {
	return fmt.Sprintf("performance:%d", performanceID)
}
