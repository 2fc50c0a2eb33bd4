package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/karate-api/internal/domain/entity"
	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
)

func newKumiteServiceForTest() (*KumiteService, *MockMatchRepo, *MockKumiteTallyRepo, *MockFinalizationRepo) {
	matchRepo := new(MockMatchRepo)
	tallyRepo := new(MockKumiteTallyRepo)
	finalizationRepo := new(MockFinalizationRepo)
	// db == nil: транзакционный помощник выполняет функцию напрямую
	svc := NewKumiteService(matchRepo, tallyRepo, finalizationRepo, nil)
	return svc, matchRepo, tallyRepo, finalizationRepo
}

func uintPtr(v uint) *uint { return &v }

func kumiteMatch(id uint, status string) *entity.Match {
	return &entity.Match{
		ID:         id,
		CategoryID: 20,
		Round:      entity.RoundFirst,
		AkaID:      101,
		AoID:       uintPtr(102),
		Status:     status,
	}
}

func TestKumiteService_SubmitTally_FirstDelta(t *testing.T) {
	// Arrange: счетчика еще нет, создается с примененной дельтой
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusScheduled), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetForUpdate", mock.Anything, uint(1), uint(101)).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("Save", mock.Anything, mock.MatchedBy(func(tally *entity.KumiteTally) bool {
		return tally.MatchID == 1 && tally.ParticipantID == 101 && tally.Yuko == 1
	})).Return(nil)
	matchRepo.On("UpdateStatus", uint(1), entity.MatchStatusInProgress).Return(nil)

	// Act
	tally, err := svc.SubmitTally(context.Background(), 1, 101, entity.TallyFieldYuko, 1, uintPtr(7))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Yuko)
	assert.Equal(t, uintPtr(7), tally.LastJudgeID)
	matchRepo.AssertCalled(t, "UpdateStatus", uint(1), entity.MatchStatusInProgress)
}

func TestKumiteService_SubmitTally_FirstDeltaInsertRace(t *testing.T) {
	// Arrange: два секретаря гонятся за самой первой вставкой счетчика —
	// строки для блокировки еще нет, проигравший натыкается на уникальный
	// индекс. Ошибка должна быть повторяемым конфликтом, а не 500.
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusScheduled), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetForUpdate", mock.Anything, uint(1), uint(101)).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("Save", mock.Anything, mock.Anything).Return(apperrors.ErrConflict)

	// Act
	_, err := svc.SubmitTally(context.Background(), 1, 101, entity.TallyFieldYuko, 1, nil)

	// Assert
	assert.ErrorIs(t, err, ErrConcurrencyConflict,
		"Проигранная гонка за первую вставку должна давать повторяемый конфликт")
	matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestKumiteService_SubmitTally_NegativeResultRejected(t *testing.T) {
	// Arrange: декремент ниже нуля отклоняется атомарно, сохранения нет
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetForUpdate", mock.Anything, uint(1), uint(101)).
		Return(&entity.KumiteTally{MatchID: 1, ParticipantID: 101, WazaAri: 0}, nil)

	// Act
	_, err := svc.SubmitTally(context.Background(), 1, 101, entity.TallyFieldWazaAri, -1, nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Отрицательный счетчик должен отклоняться")
	tallyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestKumiteService_SubmitTally_UnknownField(t *testing.T) {
	// Arrange
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetForUpdate", mock.Anything, uint(1), uint(101)).
		Return(&entity.KumiteTally{MatchID: 1, ParticipantID: 101}, nil)

	// Act
	_, err := svc.SubmitTally(context.Background(), 1, 101, "tsuki", 1, nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestKumiteService_SubmitTally_UnknownParticipant(t *testing.T) {
	// Arrange: участник не из этого матча
	svc, matchRepo, _, _ := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)

	// Act
	_, err := svc.SubmitTally(context.Background(), 1, 999, entity.TallyFieldYuko, 1, nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestKumiteService_SubmitTally_CompletedMatch(t *testing.T) {
	// Arrange: завершенный матч без переоткрытия не принимает корректировок
	svc, matchRepo, tallyRepo, _ := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusCompleted), nil)

	// Act
	_, err := svc.SubmitTally(context.Background(), 1, 101, entity.TallyFieldYuko, 1, nil)

	// Assert
	assert.ErrorIs(t, err, ErrMatchCompleted)
	tallyRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestKumiteService_CalculateWinner_Bye(t *testing.T) {
	// Arrange: матч с единственным участником
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	bye := &entity.Match{ID: 2, CategoryID: 20, Round: entity.RoundFirst, AkaID: 105, Status: entity.MatchStatusScheduled}
	matchRepo.On("GetByID", uint(2)).Return(bye, nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	matchRepo.On("SetWinner", uint(2), uint(105)).Return(nil)

	// Act
	result, err := svc.CalculateWinner(2)

	// Assert: победа без какого-либо вычисления очков
	require.NoError(t, err)
	assert.Equal(t, uint(105), result.WinnerID)
	assert.Equal(t, WinReasonBye, result.Reason)
	assert.Empty(t, result.Scores)
	tallyRepo.AssertNotCalled(t, "GetByMatch", mock.Anything)
}

func TestKumiteService_CalculateWinner_IncompleteData(t *testing.T) {
	// Arrange: у синего угла нет сохраненного счета
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetByMatch", uint(1)).Return([]entity.KumiteTally{
		{MatchID: 1, ParticipantID: 101, Yuko: 2},
	}, nil)

	// Act
	_, err := svc.CalculateWinner(1)

	// Assert
	var incompleteErr *IncompleteDataError
	require.ErrorAs(t, err, &incompleteErr)
	assert.Equal(t, []uint{102}, incompleteErr.Missing)
	matchRepo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything)
}

func TestKumiteService_CalculateWinner_Tie(t *testing.T) {
	// Arrange: точное равенство баллов — движок не выбирает победителя
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetByMatch", uint(1)).Return([]entity.KumiteTally{
		{MatchID: 1, ParticipantID: 101, WazaAri: 1},
		{MatchID: 1, ParticipantID: 102, Yuko: 2},
	}, nil)

	// Act
	_, err := svc.CalculateWinner(1)

	// Assert
	var tieErr *TieError
	require.ErrorAs(t, err, &tieErr, "Равный счет должен давать TieError, а не скрытый тай-брейк")
	assert.InDelta(t, 2.0, tieErr.Score, 0.0001)
	matchRepo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything)
}

func TestKumiteService_CalculateWinner_ByPoints(t *testing.T) {
	// Arrange: иппон+ваза-ари с двумя дзёгай (4.5) против двух юко (2.0)
	svc, matchRepo, tallyRepo, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	tallyRepo.On("GetByMatch", uint(1)).Return([]entity.KumiteTally{
		{MatchID: 1, ParticipantID: 101, Ippon: 1, WazaAri: 1, Jogai: 2},
		{MatchID: 1, ParticipantID: 102, Yuko: 2},
	}, nil)
	matchRepo.On("SetWinner", uint(1), uint(101)).Return(nil)

	// Act
	result, err := svc.CalculateWinner(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(101), result.WinnerID)
	assert.Equal(t, WinReasonPoints, result.Reason)
	assert.InDelta(t, 4.5, result.Scores[101], 0.0001)
	assert.InDelta(t, 2.0, result.Scores[102], 0.0001)
}

func TestKumiteService_CalculateWinner_AlreadyCompleted(t *testing.T) {
	// Arrange: пересчет завершенного матча требует явного переоткрытия
	svc, matchRepo, _, _ := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusCompleted), nil)

	// Act
	_, err := svc.CalculateWinner(1)

	// Assert
	assert.ErrorIs(t, err, ErrMatchCompleted)
}

func TestKumiteService_ReopenMatch(t *testing.T) {
	// Arrange
	svc, matchRepo, _, finalizationRepo := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusCompleted), nil)
	finalizationRepo.On("Get", uint(20), entity.RoundFirst).Return(nil, apperrors.ErrNotFound)
	matchRepo.On("Reopen", uint(1)).Return(nil)

	// Act
	err := svc.ReopenMatch(1)

	// Assert
	require.NoError(t, err)
	matchRepo.AssertCalled(t, "Reopen", uint(1))
}

func TestKumiteService_ReopenMatch_NotCompleted(t *testing.T) {
	// Arrange: нечего переоткрывать
	svc, matchRepo, _, _ := newKumiteServiceForTest()

	matchRepo.On("GetByID", uint(1)).Return(kumiteMatch(1, entity.MatchStatusInProgress), nil)

	// Act
	err := svc.ReopenMatch(1)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	matchRepo.AssertNotCalled(t, "Reopen", mock.Anything)
}
