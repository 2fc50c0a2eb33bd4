package service

import (
	"errors"
	"fmt"
)

// Определяем кастомные ошибки движка судейства
var (
	// ErrConcurrencyConflict возвращается при конфликте блокировки/версии:
	// вызывающая сторона должна повторить операцию с актуальным состоянием.
	ErrConcurrencyConflict = errors.New("concurrent modification, retry with current state")

	// ErrMatchCompleted возвращается при попытке изменить счет или пересчитать
	// победителя уже завершенного матча без явного переоткрытия.
	ErrMatchCompleted = errors.New("match is already completed, reopen it first")

	// ErrRoundFinalized возвращается при попытке изменить оценку или счет
	// в уже финализированном раунде.
	ErrRoundFinalized = errors.New("round is already finalized")
)

// IncompleteRoundError означает попытку финализировать раунд, в котором
// не все выступления/матчи завершены. Missing перечисляет нарушителей,
// чтобы секретариат знал, кого направить досудить.
type IncompleteRoundError struct {
	CategoryID uint
	Round      string
	Missing    []uint // Идентификаторы незавершенных выступлений/матчей
}

func (e *IncompleteRoundError) Error() string {
	return fmt.Sprintf("round %q of category %d has %d unfinished members: %v",
		e.Round, e.CategoryID, len(e.Missing), e.Missing)
}

// InsufficientCandidatesError означает, что завершенных выступлений меньше,
// чем требует отсечка следующего раунда. Движок никогда не продвигает
// неполный состав молча.
type InsufficientCandidatesError struct {
	Round     string
	Required  int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("round %q requires %d finalized performances, only %d available",
		e.Round, e.Required, e.Available)
}

// AlreadyFinalizedError означает повторную финализацию раунда. Второй вызов
// никогда не создает дубликат следующего раунда.
type AlreadyFinalizedError struct {
	CategoryID uint
	Round      string
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("round %q of category %d is already finalized", e.Round, e.CategoryID)
}

// TieError означает точное равенство баллов в матче кумитэ. Движок не
// изобретает правило тай-брейка: исход решается вручную (энтё/хантэй
// вне зоны ответственности движка).
type TieError struct {
	MatchID uint
	Score   float64
}

func (e *TieError) Error() string {
	return fmt.Sprintf("match %d is tied at %.2f, manual adjudication required", e.MatchID, e.Score)
}

// IncompleteDataError означает, что для определения победителя не хватает
// данных: не у обоих участников матча есть сохраненный счет.
type IncompleteDataError struct {
	MatchID uint
	Missing []uint // Участники без счетчика
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("match %d has no tally for participants %v", e.MatchID, e.Missing)
}
