package dto

import (
	"time"

	"github.com/yourusername/karate-api/internal/domain/entity"
)

// ScoreResponse представляет оценку судьи в формате для ответа клиенту
type ScoreResponse struct {
	ID            uint      `json:"id"`
	PerformanceID uint      `json:"performance_id"`
	JudgeID       uint      `json:"judge_id"`
	Value         float64   `json:"value"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PerformanceResponse представляет выступление ката в формате для ответа клиенту
type PerformanceResponse struct {
	ID               uint            `json:"id"`
	CategoryID       uint            `json:"category_id"`
	ParticipantID    uint            `json:"participant_id"`
	Round            string          `json:"round"`
	PerformanceOrder int             `json:"performance_order"`
	ScoringState     string          `json:"scoring_state"`
	FinalScore       *float64        `json:"final_score"`
	Place            *int            `json:"place,omitempty"`
	Scores           []ScoreResponse `json:"scores,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TallyResponse представляет счетчик участника матча вместе с
// вычисленными очками, вычетом и результирующим баллом
type TallyResponse struct {
	MatchID       uint    `json:"match_id"`
	ParticipantID uint    `json:"participant_id"`
	Yuko          int     `json:"yuko"`
	WazaAri       int     `json:"waza_ari"`
	Ippon         int     `json:"ippon"`
	Chukoku       int     `json:"chukoku"`
	Keikoku       int     `json:"keikoku"`
	HansokuChui   int     `json:"hansoku_chui"`
	Hansoku       int     `json:"hansoku"`
	Jogai         int     `json:"jogai"`
	LastJudgeID   *uint   `json:"last_judge_id,omitempty"`
	PointTotal    float64 `json:"point_total"`
	Deduction     float64 `json:"deduction"`
	Score         float64 `json:"score"`
}

// MatchResponse представляет матч кумитэ в формате для ответа клиенту
type MatchResponse struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Round      string          `json:"round"`
	MatchOrder int             `json:"match_order"`
	IsTeam     bool            `json:"is_team"`
	AkaID      uint            `json:"aka_id"`
	AoID       *uint           `json:"ao_id"`
	IsBye      bool            `json:"is_bye"`
	Status     string          `json:"status"`
	WinnerID   *uint           `json:"winner_id"`
	Tallies    []TallyResponse `json:"tallies,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewScoreResponse создает DTO для оценки судьи
func NewScoreResponse(score *entity.KataScore) ScoreResponse {
	return ScoreResponse{
		ID:            score.ID,
		PerformanceID: score.PerformanceID,
		JudgeID:       score.JudgeID,
		Value:         score.Value,
		UpdatedAt:     score.UpdatedAt,
	}
}

// NewPerformanceResponse создает DTO для выступления. Признак финализации
// передается снаружи: он хранится на уровне раунда, а не выступления.
func NewPerformanceResponse(performance *entity.Performance, finalized bool) *PerformanceResponse {
	if performance == nil {
		return nil
	}

	scoresDTO := make([]ScoreResponse, len(performance.Scores))
	for i, s := range performance.Scores {
		scoreCopy := s
		scoresDTO[i] = NewScoreResponse(&scoreCopy)
	}

	return &PerformanceResponse{
		ID:               performance.ID,
		CategoryID:       performance.CategoryID,
		ParticipantID:    performance.ParticipantID,
		Round:            performance.Round,
		PerformanceOrder: performance.PerformanceOrder,
		ScoringState:     performance.ScoringState(finalized),
		FinalScore:       performance.FinalScore,
		Place:            performance.Place,
		Scores:           scoresDTO,
		CreatedAt:        performance.CreatedAt,
		UpdatedAt:        performance.UpdatedAt,
	}
}

// NewTallyResponse создает DTO для счетчика участника
func NewTallyResponse(tally *entity.KumiteTally) TallyResponse {
	return TallyResponse{
		MatchID:       tally.MatchID,
		ParticipantID: tally.ParticipantID,
		Yuko:          tally.Yuko,
		WazaAri:       tally.WazaAri,
		Ippon:         tally.Ippon,
		Chukoku:       tally.Chukoku,
		Keikoku:       tally.Keikoku,
		HansokuChui:   tally.HansokuChui,
		Hansoku:       tally.Hansoku,
		Jogai:         tally.Jogai,
		LastJudgeID:   tally.LastJudgeID,
		PointTotal:    tally.PointTotal(),
		Deduction:     tally.PenaltyDeduction(),
		Score:         tally.Score(),
	}
}

// NewMatchResponse создает DTO для матча с текущими счетчиками участников
func NewMatchResponse(match *entity.Match, tallies []entity.KumiteTally) *MatchResponse {
	if match == nil {
		return nil
	}

	talliesDTO := make([]TallyResponse, len(tallies))
	for i, t := range tallies {
		tallyCopy := t
		talliesDTO[i] = NewTallyResponse(&tallyCopy)
	}

	return &MatchResponse{
		ID:         match.ID,
		CategoryID: match.CategoryID,
		Round:      match.Round,
		MatchOrder: match.MatchOrder,
		IsTeam:     match.IsTeam,
		AkaID:      match.AkaID,
		AoID:       match.AoID,
		IsBye:      match.IsBye(),
		Status:     match.Status,
		WinnerID:   match.WinnerID,
		Tallies:    talliesDTO,
		CreatedAt:  match.CreatedAt,
		UpdatedAt:  match.UpdatedAt,
	}
}

// NewListPerformanceResponse создает слайс DTO для списка выступлений
func NewListPerformanceResponse(performances []entity.Performance, finalized bool) []*PerformanceResponse {
	list := make([]*PerformanceResponse, len(performances))
	for i, performance := range performances {
		performanceCopy := performance
		list[i] = NewPerformanceResponse(&performanceCopy, finalized)
	}
	return list
}

// NewListMatchResponse создает слайс DTO для списка матчей (без счетчиков)
func NewListMatchResponse(matches []entity.Match) []*MatchResponse {
	list := make([]*MatchResponse, len(matches))
	for i, match := range matches {
		matchCopy := match
		list[i] = NewMatchResponse(&matchCopy, nil)
	}
	return list
}
