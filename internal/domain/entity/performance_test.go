package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerformance_ScoringState(t *testing.T) {
	// Arrange
	perf := &Performance{ID: 1, CategoryID: 1, Round: RoundFirst}

	// Act & Assert: без оценок — open
	assert.Equal(t, ScoringStateOpen, perf.ScoringState(false))

	// Одна оценка — partially_scored
	perf.Scores = []KataScore{{JudgeID: 1, Value: 7.0}}
	assert.Equal(t, ScoringStatePartiallyScored, perf.ScoringState(false))

	// Три оценки — decidable
	perf.Scores = append(perf.Scores,
		KataScore{JudgeID: 2, Value: 8.0},
		KataScore{JudgeID: 3, Value: 8.5},
	)
	assert.Equal(t, ScoringStateDecidable, perf.ScoringState(false))

	// Финализированный раунд перекрывает все остальное
	assert.Equal(t, ScoringStateFinalized, perf.ScoringState(true))
}

func TestPerformance_ScoreValues(t *testing.T) {
	// Arrange
	perf := &Performance{
		Scores: []KataScore{
			{JudgeID: 1, Value: 7.0},
			{JudgeID: 2, Value: 8.5},
		},
	}

	// Act & Assert
	assert.Equal(t, []float64{7.0, 8.5}, perf.ScoreValues())
}

func TestNextKataRound(t *testing.T) {
	// Act & Assert: цепочка раундов и размеры отсечки
	next, cut := NextKataRound(RoundFirst)
	assert.Equal(t, RoundSecond, next)
	assert.Equal(t, 8, cut)

	next, cut = NextKataRound(RoundSecond)
	assert.Equal(t, RoundThird, next)
	assert.Equal(t, 4, cut)

	// Финальный раунд — терминальный
	next, cut = NextKataRound(RoundThird)
	assert.Equal(t, "", next)
	assert.Equal(t, 0, cut)
}

func TestMatch_IsBye(t *testing.T) {
	// Arrange
	ao := uint(7)
	full := &Match{AkaID: 5, AoID: &ao}
	bye := &Match{AkaID: 5}

	// Act & Assert
	assert.False(t, full.IsBye())
	assert.True(t, bye.IsBye(), "Матч с единственным участником должен быть bye")

	assert.Equal(t, []uint{5, 7}, full.ParticipantIDs())
	assert.Equal(t, []uint{5}, bye.ParticipantIDs())

	assert.True(t, full.HasParticipant(7))
	assert.False(t, bye.HasParticipant(7))
}
