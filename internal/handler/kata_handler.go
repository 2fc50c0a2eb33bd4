package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/karate-api/internal/handler/dto"
	"github.com/yourusername/karate-api/internal/service"
)

// KataHandler обрабатывает запросы судейства ката
type KataHandler struct {
	kataService *service.KataService
}

// NewKataHandler создает новый обработчик судейства ката
func NewKataHandler(kataService *service.KataService) *KataHandler {
	return &KataHandler{kataService: kataService}
}

// SubmitScoreRequest представляет запрос на подачу оценки судьи
type SubmitScoreRequest struct {
	JudgeID uint    `json:"judge_id" binding:"required"`
	Value   float64 `json:"value" binding:"required"`
}

// SubmitScore принимает оценку судьи за выступление.
// Повторная подача того же судьи перезаписывает его предыдущую оценку.
// POST /api/performances/:id/scores
func (h *KataHandler) SubmitScore(c *gin.Context) {
	performanceID := c.MustGet("performanceID").(uint) // Получаем из контекста

	var req SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.kataService.SubmitScore(c.Request.Context(), performanceID, req.JudgeID, req.Value)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewScoreResponse(score))
}

// RetractScore отзывает оценку судьи (административная корректировка)
// DELETE /api/performances/:id/scores/:judgeId
func (h *KataHandler) RetractScore(c *gin.Context) {
	performanceID := c.MustGet("performanceID").(uint)

	judgeID, err := strconv.ParseUint(c.Param("judgeId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid judgeId"})
		return
	}

	if err := h.kataService.RetractScore(c.Request.Context(), performanceID, uint(judgeID)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Score of judge %d retracted", judgeID),
	})
}

// GetPerformance возвращает выступление с оценками и производным состоянием
// GET /api/performances/:id
func (h *KataHandler) GetPerformance(c *gin.Context) {
	performanceID := c.MustGet("performanceID").(uint)

	performance, err := h.kataService.GetPerformance(performanceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	finalized, err := h.kataService.RoundFinalized(performance.CategoryID, performance.Round)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPerformanceResponse(performance, finalized))
}
