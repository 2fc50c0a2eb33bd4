package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/karate-api/internal/domain/entity"
	"github.com/yourusername/karate-api/internal/domain/repository"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

// Причины определения победителя
const (
	WinReasonBye    = "bye"
	WinReasonPoints = "points"
)

// WinnerResult описывает исход вычисления победителя матча
type WinnerResult struct {
	WinnerID uint             `json:"winner_id"`
	Reason   string           `json:"reason"`
	Scores   map[uint]float64 `json:"scores"` // Балл каждого участника (пусто для bye)
}

// KumiteService предоставляет операции ведения счета кумитэ: корректировки
// счетчиков секретариатом и определение победителя матча.
type KumiteService struct {
	matchRepo        repository.MatchRepository
	tallyRepo        repository.KumiteTallyRepository
	finalizationRepo repository.RoundFinalizationRepository
	db               *gorm.DB
}

// NewKumiteService создает новый сервис кумитэ
func NewKumiteService(
	matchRepo repository.MatchRepository,
	tallyRepo repository.KumiteTallyRepository,
	finalizationRepo repository.RoundFinalizationRepository,
	db *gorm.DB,
) *KumiteService {
	return &KumiteService{
		matchRepo:        matchRepo,
		tallyRepo:        tallyRepo,
		finalizationRepo: finalizationRepo,
		db:               db,
	}
}

// SubmitTally применяет дельту (+/-) к одному счетчику участника матча.
// Чтение и запись выполняются в одной транзакции под блокировкой строки,
// поэтому параллельные корректировки двух секретарей не теряются.
// Дельта, дающая отрицательный счетчик, отклоняется целиком.
func (s *KumiteService) SubmitTally(ctx context.Context, matchID, participantID uint, field string, amount int, judgeID *uint) (*entity.KumiteTally, error) {
	match, err := s.matchRepo.GetByID(matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(participantID) {
		return nil, fmt.Errorf("%w: participant %d is not in match %d",
			apperrors.ErrValidation, participantID, matchID)
	}
	if match.IsCompleted() {
		return nil, ErrMatchCompleted
	}
	if err := s.ensureRoundOpen(match.CategoryID, match.Round); err != nil {
		return nil, err
	}

	var updated *entity.KumiteTally
	err = s.transaction(ctx, func(tx *gorm.DB) error {
		tally, err := s.tallyRepo.GetForUpdate(tx, matchID, participantID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			tally = &entity.KumiteTally{MatchID: matchID, ParticipantID: participantID}
		}

		ref, ok := tally.FieldRef(field)
		if !ok {
			return fmt.Errorf("%w: unknown tally field %q", apperrors.ErrValidation, field)
		}
		if *ref+amount < 0 {
			return fmt.Errorf("%w: %s would become negative (%d%+d)",
				apperrors.ErrValidation, field, *ref, amount)
		}
		*ref += amount
		tally.LastJudgeID = judgeID

		if err := s.tallyRepo.Save(tx, tally); err != nil {
			// Проигранная гонка за самую первую вставку счетчика:
			// вызывающая сторона повторяет дельту по актуальной строке
			if errors.Is(err, apperrors.ErrConflict) {
				return ErrConcurrencyConflict
			}
			return fmt.Errorf("failed to save tally: %w", err)
		}
		updated = tally
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Первая корректировка переводит матч из scheduled в in_progress
	if match.Status == entity.MatchStatusScheduled {
		if err := s.matchRepo.UpdateStatus(matchID, entity.MatchStatusInProgress); err != nil {
			log.Printf("[KumiteService] Не удалось перевести матч #%d в in_progress: %v", matchID, err)
		}
	}

	log.Printf("[KumiteService] Матч #%d, участник #%d: %s %+d", matchID, participantID, field, amount)
	return updated, nil
}

// GetMatch возвращает матч вместе со счетчиками участников
func (s *KumiteService) GetMatch(matchID uint) (*entity.Match, []entity.KumiteTally, error) {
	match, err := s.matchRepo.GetByID(matchID)
	if err != nil {
		return nil, nil, err
	}
	tallies, err := s.tallyRepo.GetByMatch(matchID)
	if err != nil {
		return nil, nil, err
	}
	return match, tallies, nil
}

// CalculateWinner вычисляет победителя матча и фиксирует его, переводя матч
// в статус completed.
//
// Правила:
//   - матч с единственным участником (bye) выигрывает этот участник без
//     какого-либо вычисления очков;
//   - для двух участников у обоих должен быть сохраненный счет, иначе
//     IncompleteDataError;
//   - точное равенство баллов — TieError: движок не применяет скрытый
//     тай-брейк, исход решается вручную;
//   - пересчет уже завершенного матча отклоняется, требуется явный Reopen.
func (s *KumiteService) CalculateWinner(matchID uint) (*WinnerResult, error) {
	match, err := s.matchRepo.GetByID(matchID)
	if err != nil {
		return nil, err
	}
	if match.IsCompleted() {
		return nil, ErrMatchCompleted
	}
	if err := s.ensureRoundOpen(match.CategoryID, match.Round); err != nil {
		return nil, err
	}

	// Bye: единственный участник побеждает безусловно
	if match.IsBye() {
		if err := s.matchRepo.SetWinner(matchID, match.AkaID); err != nil {
			return nil, err
		}
		log.Printf("[KumiteService] Матч #%d: bye, победитель #%d", matchID, match.AkaID)
		return &WinnerResult{WinnerID: match.AkaID, Reason: WinReasonBye, Scores: map[uint]float64{}}, nil
	}

	tallies, err := s.tallyRepo.GetByMatch(matchID)
	if err != nil {
		return nil, err
	}
	byParticipant := make(map[uint]*entity.KumiteTally, len(tallies))
	for i := range tallies {
		byParticipant[tallies[i].ParticipantID] = &tallies[i]
	}

	var missing []uint
	for _, id := range match.ParticipantIDs() {
		if _, ok := byParticipant[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteDataError{MatchID: matchID, Missing: missing}
	}

	akaScore := byParticipant[match.AkaID].Score()
	aoScore := byParticipant[*match.AoID].Score()
	scores := map[uint]float64{
		match.AkaID: akaScore,
		*match.AoID: aoScore,
	}

	if akaScore == aoScore {
		return nil, &TieError{MatchID: matchID, Score: akaScore}
	}

	winnerID := match.AkaID
	if aoScore > akaScore {
		winnerID = *match.AoID
	}
	if err := s.matchRepo.SetWinner(matchID, winnerID); err != nil {
		return nil, err
	}

	log.Printf("[KumiteService] Матч #%d завершен: победитель #%d (%.2f против %.2f)",
		matchID, winnerID, akaScore, aoScore)
	return &WinnerResult{WinnerID: winnerID, Reason: WinReasonPoints, Scores: scores}, nil
}

// ReopenMatch явно переоткрывает завершенный матч: снимает победителя и
// возвращает матч в in_progress. Единственный разрешенный путь к пересчету.
func (s *KumiteService) ReopenMatch(matchID uint) error {
	match, err := s.matchRepo.GetByID(matchID)
	if err != nil {
		return err
	}
	if !match.IsCompleted() {
		return fmt.Errorf("%w: match %d is not completed", apperrors.ErrConflict, matchID)
	}
	if err := s.ensureRoundOpen(match.CategoryID, match.Round); err != nil {
		return err
	}

	log.Printf("[KumiteService] Матч #%d переоткрыт", matchID)
	return s.matchRepo.Reopen(matchID)
}

// transaction выполняет fn в транзакции базы данных. При nil db (юнит-тесты
// на моках репозиториев) fn выполняется без транзакции.
func (s *KumiteService) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// ensureRoundOpen возвращает ErrRoundFinalized, если раунд уже финализирован
func (s *KumiteService) ensureRoundOpen(categoryID uint, round string) error {
	_, err := s.finalizationRepo.Get(categoryID, round)
	if err == nil {
		return ErrRoundFinalized
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
