package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/karate-api/internal/handler/dto"
	"github.com/yourusername/karate-api/internal/service"
)

// KumiteHandler обрабатывает запросы ведения счета кумитэ
type KumiteHandler struct {
	kumiteService *service.KumiteService
}

// NewKumiteHandler создает новый обработчик кумитэ
func NewKumiteHandler(kumiteService *service.KumiteService) *KumiteHandler {
	return &KumiteHandler{kumiteService: kumiteService}
}

// GetMatch возвращает матч вместе с текущими счетчиками участников
// GET /api/matches/:id
func (h *KumiteHandler) GetMatch(c *gin.Context) {
	matchID := c.MustGet("matchID").(uint) // Получаем из контекста

	match, tallies, err := h.kumiteService.GetMatch(matchID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMatchResponse(match, tallies))
}

// SubmitTallyRequest представляет корректировку счетчика участника.
// Delta может быть отрицательной (исправление ошибки ввода), но счетчик
// никогда не уходит ниже нуля.
type SubmitTallyRequest struct {
	ParticipantID uint   `json:"participant_id" binding:"required"`
	Field         string `json:"field" binding:"required"`
	Delta         int    `json:"delta" binding:"required"`
	JudgeID       *uint  `json:"judge_id"` // Опционально, след для аудита
}

// SubmitTally применяет дельту к счетчику участника матча
// POST /api/matches/:id/tally
func (h *KumiteHandler) SubmitTally(c *gin.Context) {
	matchID := c.MustGet("matchID").(uint)

	var req SubmitTallyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tally, err := h.kumiteService.SubmitTally(c.Request.Context(), matchID, req.ParticipantID, req.Field, req.Delta, req.JudgeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTallyResponse(tally))
}

// CalculateWinner вычисляет и фиксирует победителя матча по текущим счетчикам.
// Точное равенство баллов — конфликт: исход решается вручную.
// POST /api/matches/:id/winner
func (h *KumiteHandler) CalculateWinner(c *gin.Context) {
	matchID := c.MustGet("matchID").(uint)

	result, err := h.kumiteService.CalculateWinner(matchID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReopenMatch явно переоткрывает завершенный матч для пересчета
// POST /api/matches/:id/reopen
func (h *KumiteHandler) ReopenMatch(c *gin.Context) {
	matchID := c.MustGet("matchID").(uint)

	if err := h.kumiteService.ReopenMatch(matchID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Match reopened"})
}
