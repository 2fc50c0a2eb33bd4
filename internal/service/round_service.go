package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	"github.com/yourusername/karate-api/internal/domain/repository"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// Placement описывает занятое место участника в категории
type Placement struct {
	ParticipantID uint `json:"participant_id"`
	Place         int  `json:"place"`
}

// FinalizeResult описывает исход финализации раунда
type FinalizeResult struct {
	// NextRound заполнен, если создан следующий раунд ката
	NextRound string `json:"next_round,omitempty"`
	// Advanced — прошедшие дальше участники (ката: топ-N, кумитэ: победители матчей)
	Advanced []uint `json:"advanced,omitempty"`
	// Placements заполнен только для терминального раунда ката
	Placements []Placement `json:"placements,omitempty"`
}

// PlacementEntry — строка итогового протокола категории
type PlacementEntry struct {
	Place         int      `json:"place"`
	ParticipantID uint     `json:"participant_id"`
	DisplayName   string   `json:"display_name"`
	Belt          string   `json:"belt"`
	FinalScore    *float64 `json:"final_score"`
}

// RoundService управляет жизненным циклом раундов: создание сущностей раунда,
// проверка полноты и финализация с продвижением по олимпийской сетке.
type RoundService struct {
	performanceRepo  repository.PerformanceRepository
	matchRepo        repository.MatchRepository
	participantRepo  repository.ParticipantRepository
	categoryRepo     repository.CategoryRepository
	finalizationRepo repository.RoundFinalizationRepository
	cacheRepo        repository.CacheRepository
	db               *gorm.DB
	lockTTL          time.Duration
}

// NewRoundService создает новый сервис раундов
func NewRoundService(
	performanceRepo repository.PerformanceRepository,
	matchRepo repository.MatchRepository,
	participantRepo repository.ParticipantRepository,
	categoryRepo repository.CategoryRepository,
	finalizationRepo repository.RoundFinalizationRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
	lockTTL time.Duration,
) *RoundService {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &RoundService{
		performanceRepo:  performanceRepo,
		matchRepo:        matchRepo,
		participantRepo:  participantRepo,
		categoryRepo:     categoryRepo,
		finalizationRepo: finalizationRepo,
		cacheRepo:        cacheRepo,
		db:               db,
		lockTTL:          lockTTL,
	}
}

// CreateRound создает сущности раунда для набора участников: по одному
// выступлению на участника (ката) либо последовательные пары матчей с
// замыкающим bye при нечетном числе (кумитэ). Создание атомарно:
// либо весь раунд, либо ничего.
func (s *RoundService) CreateRound(ctx context.Context, categoryID uint, round string, participantIDs []uint) ([]entity.Performance, []entity.Match, error) {
	if !entity.IsValidRound(round) {
		return nil, nil, fmt.Errorf("%w: unknown round %q", apperrors.ErrValidation, round)
	}
	if len(participantIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: participant list is empty", apperrors.ErrValidation)
	}
	if dup := firstDuplicate(participantIDs); dup != 0 {
		return nil, nil, fmt.Errorf("%w: participant %d listed twice", apperrors.ErrValidation, dup)
	}

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validateRegistration(category, participantIDs); err != nil {
		return nil, nil, err
	}

	if category.IsKata() {
		performances, err := s.createKataRound(ctx, category, round, participantIDs)
		return performances, nil, err
	}
	matches, err := s.createKumiteRound(ctx, category, round, participantIDs)
	return nil, matches, err
}

// FinalizeRound проверяет полноту раунда и продвигает категорию дальше:
// ката — отсечка топ-8/топ-4 либо назначение мест в финале, кумитэ —
// проверка завершенности и выдача победителей для построения сетки.
//
// Вся последовательность "проверить и создать" выполняется под эксклюзивной
// блокировкой (категория, раунд); долговременная отметка о финализации с
// уникальным индексом исключает дубликат следующего раунда даже при потере
// блокировки.
func (s *RoundService) FinalizeRound(ctx context.Context, categoryID uint, round string) (*FinalizeResult, error) {
	if !entity.IsValidRound(round) {
		return nil, fmt.Errorf("%w: unknown round %q", apperrors.ErrValidation, round)
	}
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireFinalizeLock(categoryID, round)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.finalizationRepo.Get(categoryID, round); err == nil {
		return nil, &AlreadyFinalizedError{CategoryID: categoryID, Round: round}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if category.IsKata() {
		return s.finalizeKataRound(ctx, category, round)
	}
	return s.finalizeKumiteRound(ctx, category, round)
}

// GetRoundStandings возвращает текущее состояние раунда для табло секретариата
func (s *RoundService) GetRoundStandings(categoryID uint, round string) ([]entity.Performance, []entity.Match, bool, error) {
	if !entity.IsValidRound(round) {
		return nil, nil, false, fmt.Errorf("%w: unknown round %q", apperrors.ErrValidation, round)
	}
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, nil, false, err
	}

	finalized := false
	if _, err := s.finalizationRepo.Get(categoryID, round); err == nil {
		finalized = true
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, false, err
	}

	if category.IsKata() {
		performances, err := s.performanceRepo.GetByCategoryAndRound(categoryID, round)
		return performances, nil, finalized, err
	}
	matches, err := s.matchRepo.GetByCategoryAndRound(categoryID, round)
	return nil, matches, finalized, err
}

// GetPlacements возвращает итоговый протокол категории (только назначенные места)
func (s *RoundService) GetPlacements(categoryID uint) ([]PlacementEntry, error) {
	performances, err := s.performanceRepo.GetPlacements(categoryID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(performances))
	for _, p := range performances {
		ids = append(ids, p.ParticipantID)
	}
	participants, err := s.participantRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	entries := make([]PlacementEntry, 0, len(performances))
	for _, p := range performances {
		entry := PlacementEntry{
			ParticipantID: p.ParticipantID,
			FinalScore:    p.FinalScore,
		}
		if p.Place != nil {
			entry.Place = *p.Place
		}
		if participant, ok := byID[p.ParticipantID]; ok {
			entry.DisplayName = participant.DisplayName
			entry.Belt = participant.Belt
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// --- Создание раундов ---

func (s *RoundService) createKataRound(ctx context.Context, category *entity.Category, round string, participantIDs []uint) ([]entity.Performance, error) {
	existing, err := s.performanceRepo.FindParticipantsInRound(category.ID, round, participantIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: participants %v already have a performance in round %q",
			apperrors.ErrValidation, existing, round)
	}

	performances := make([]entity.Performance, 0, len(participantIDs))
	for i, participantID := range participantIDs {
		performances = append(performances, entity.Performance{
			CategoryID:       category.ID,
			ParticipantID:    participantID,
			Round:            round,
			PerformanceOrder: i + 1,
		})
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		return s.performanceRepo.CreateBatch(tx, performances)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kata round: %w", err)
	}

	log.Printf("[RoundService] Категория #%d: создан раунд %q из %d выступлений",
		category.ID, round, len(performances))
	return performances, nil
}

func (s *RoundService) createKumiteRound(ctx context.Context, category *entity.Category, round string, participantIDs []uint) ([]entity.Match, error) {
	existing, err := s.matchRepo.FindParticipantsInRound(category.ID, round, participantIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: participants %v already have a match in round %q",
			apperrors.ErrValidation, existing, round)
	}

	isTeam := category.Discipline == entity.DisciplineTeamKumite
	matches := make([]entity.Match, 0, (len(participantIDs)+1)/2)
	for i := 0; i < len(participantIDs); i += 2 {
		match := entity.Match{
			CategoryID: category.ID,
			Round:      round,
			MatchOrder: len(matches) + 1,
			IsTeam:     isTeam,
			AkaID:      participantIDs[i],
			Status:     entity.MatchStatusScheduled,
		}
		if i+1 < len(participantIDs) {
			aoID := participantIDs[i+1]
			match.AoID = &aoID
		} else {
			// Замыкающий bye: единственный участник побеждает без поединка,
			// матч сразу создается завершенным
			winnerID := participantIDs[i]
			match.WinnerID = &winnerID
			match.Status = entity.MatchStatusCompleted
		}
		matches = append(matches, match)
	}

	err = s.transaction(ctx, func(tx *gorm.DB) error {
		return s.matchRepo.CreateBatch(tx, matches)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kumite round: %w", err)
	}

	log.Printf("[RoundService] Категория #%d: создан раунд %q из %d матчей",
		category.ID, round, len(matches))
	return matches, nil
}

// --- Финализация ---

func (s *RoundService) finalizeKataRound(ctx context.Context, category *entity.Category, round string) (*FinalizeResult, error) {
	performances, err := s.performanceRepo.GetByCategoryAndRound(category.ID, round)
	if err != nil {
		return nil, err
	}
	if len(performances) == 0 {
		return nil, fmt.Errorf("%w: round %q of category %d has no performances",
			apperrors.ErrNotFound, round, category.ID)
	}

	var missing []uint
	for _, p := range performances {
		if p.FinalScore == nil {
			missing = append(missing, p.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteRoundError{CategoryID: category.ID, Round: round, Missing: missing}
	}

	// Ранжирование: итоговый балл по убыванию; при равенстве на границе
	// отсечки детерминированно выигрывает более ранний порядок выхода.
	ranked := make([]entity.Performance, len(performances))
	copy(ranked, performances)
	sort.SliceStable(ranked, func(i, j int) bool {
		if *ranked[i].FinalScore != *ranked[j].FinalScore {
			return *ranked[i].FinalScore > *ranked[j].FinalScore
		}
		return ranked[i].PerformanceOrder < ranked[j].PerformanceOrder
	})

	nextRound, cut := entity.NextKataRound(round)

	// Терминальный раунд: назначаем места 1, 2 и две бронзы
	if nextRound == "" {
		places := make(map[uint]int, len(ranked))
		placements := make([]Placement, 0, len(ranked))
		for rank, p := range ranked {
			place := rank + 1
			if place > 3 {
				place = 3 // Разделенная бронза за 3-е и 4-е место
			}
			places[p.ID] = place
			placements = append(placements, Placement{ParticipantID: p.ParticipantID, Place: place})
		}

		err = s.transaction(ctx, func(tx *gorm.DB) error {
			if err := s.finalizationRepo.Create(tx, &entity.RoundFinalization{
				CategoryID: category.ID,
				Round:      round,
			}); err != nil {
				return err
			}
			return s.performanceRepo.UpdatePlaces(tx, places)
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return nil, &AlreadyFinalizedError{CategoryID: category.ID, Round: round}
			}
			return nil, fmt.Errorf("failed to finalize terminal round: %w", err)
		}

		// Места записаны поверх закешированных выступлений — снимаем кеш,
		// иначе GetPerformance до истечения TTL отдает place == nil
		for _, p := range ranked {
			if err := s.cacheRepo.Delete(performanceCacheKey(p.ID)); err != nil {
				log.Printf("[RoundService] Ошибка инвалидации кеша выступления #%d: %v", p.ID, err)
			}
		}

		log.Printf("[RoundService] Категория #%d: раунд %q финализирован, места назначены",
			category.ID, round)
		return &FinalizeResult{Placements: placements}, nil
	}

	if len(ranked) < cut {
		return nil, &InsufficientCandidatesError{Round: round, Required: cut, Available: len(ranked)}
	}

	advanced := make([]uint, 0, cut)
	nextPerformances := make([]entity.Performance, 0, cut)
	for i := 0; i < cut; i++ {
		advanced = append(advanced, ranked[i].ParticipantID)
		nextPerformances = append(nextPerformances, entity.Performance{
			CategoryID:       category.ID,
			ParticipantID:    ranked[i].ParticipantID,
			Round:            nextRound,
			PerformanceOrder: i + 1,
		})
	}

	// Отметка и сущности следующего раунда создаются в одной транзакции:
	// отмененная финализация не оставляет частично созданного раунда
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		if err := s.finalizationRepo.Create(tx, &entity.RoundFinalization{
			CategoryID: category.ID,
			Round:      round,
			NextRound:  nextRound,
		}); err != nil {
			return err
		}
		return s.performanceRepo.CreateBatch(tx, nextPerformances)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &AlreadyFinalizedError{CategoryID: category.ID, Round: round}
		}
		return nil, fmt.Errorf("failed to finalize round: %w", err)
	}

	log.Printf("[RoundService] Категория #%d: раунд %q финализирован, %d участников прошли в %q",
		category.ID, round, len(advanced), nextRound)
	return &FinalizeResult{NextRound: nextRound, Advanced: advanced}, nil
}

func (s *RoundService) finalizeKumiteRound(ctx context.Context, category *entity.Category, round string) (*FinalizeResult, error) {
	matches, err := s.matchRepo.GetByCategoryAndRound(category.ID, round)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: round %q of category %d has no matches",
			apperrors.ErrNotFound, round, category.ID)
	}

	var missing []uint
	winners := make([]uint, 0, len(matches))
	for _, m := range matches {
		if !m.IsCompleted() || m.WinnerID == nil {
			missing = append(missing, m.ID)
			continue
		}
		winners = append(winners, *m.WinnerID)
	}
	if len(missing) > 0 {
		return nil, &IncompleteRoundError{CategoryID: category.ID, Round: round, Missing: missing}
	}

	// Продвижение в кумитэ определяется структурой сетки: движок только
	// удостоверяет полноту раунда и отдает победителей внешнему
	// построителю пар следующего раунда.
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		return s.finalizationRepo.Create(tx, &entity.RoundFinalization{
			CategoryID: category.ID,
			Round:      round,
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, &AlreadyFinalizedError{CategoryID: category.ID, Round: round}
		}
		return nil, fmt.Errorf("failed to finalize kumite round: %w", err)
	}

	log.Printf("[RoundService] Категория #%d: раунд кумитэ %q финализирован, победители: %v",
		category.ID, round, winners)
	return &FinalizeResult{Advanced: winners}, nil
}

// --- Вспомогательные методы ---

// transaction выполняет fn в транзакции базы данных. При nil db (юнит-тесты
// на моках репозиториев) fn выполняется без транзакции.
func (s *RoundService) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// acquireFinalizeLock берет эксклюзивную блокировку финализации раунда.
// Значение ключа — уникальный токен владельца: снять блокировку может
// только взявший ее вызов.
func (s *RoundService) acquireFinalizeLock(categoryID uint, round string) (func(), error) {
	lockKey := fmt.Sprintf("round:finalize:lock:%d:%s", categoryID, round)
	token := uuid.NewString()

	acquired, err := s.cacheRepo.SetNX(lockKey, token, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire finalize lock: %w", err)
	}
	if !acquired {
		return nil, ErrConcurrencyConflict
	}

	unlock := func() {
		current, err := s.cacheRepo.Get(lockKey)
		if err != nil || current != token {
			return
		}
		if err := s.cacheRepo.Delete(lockKey); err != nil {
			log.Printf("[RoundService] Ошибка снятия блокировки %s: %v", lockKey, err)
		}
	}
	return unlock, nil
}

// validateRegistration проверяет, что все участники существуют и
// зарегистрированы именно в этой категории
func (s *RoundService) validateRegistration(category *entity.Category, participantIDs []uint) error {
	participants, err := s.participantRepo.GetByIDs(participantIDs)
	if err != nil {
		return err
	}
	found := make(map[uint]entity.Participant, len(participants))
	for _, p := range participants {
		found[p.ID] = p
	}
	for _, id := range participantIDs {
		participant, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: unknown participant %d", apperrors.ErrValidation, id)
		}
		if participant.CategoryID != category.ID {
			return fmt.Errorf("%w: participant %d is not registered in category %d",
				apperrors.ErrValidation, id, category.ID)
		}
	}
	return nil
}

// firstDuplicate возвращает первый повторившийся идентификатор или 0
func firstDuplicate(ids []uint) uint {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return 0
}
