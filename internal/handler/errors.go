package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/karate-api/internal/pkg/errors"
	"github.com/yourusername/karate-api/internal/service"
)

// handleServiceError обрабатывает ошибки сервисов судейства и отправляет
// соответствующий HTTP ответ. Конфликтные ошибки несут структурированную
// причину: секретариату нужно знать, кого досудить или что повторить.
func handleServiceError(c *gin.Context, err error) {
	var (
		incompleteRound *service.IncompleteRoundError
		insufficient    *service.InsufficientCandidatesError
		alreadyDone     *service.AlreadyFinalizedError
		tie             *service.TieError
		incompleteData  *service.IncompleteDataError
	)

	switch {
	case errors.As(err, &incompleteRound):
		c.JSON(http.StatusConflict, gin.H{
			"error":   err.Error(),
			"reason":  "incomplete_round",
			"missing": incompleteRound.Missing,
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"reason":    "insufficient_candidates",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.As(err, &alreadyDone):
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"reason": "already_finalized",
			"round":  alreadyDone.Round,
		})
	case errors.As(err, &tie):
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"reason": "tie",
			"score":  tie.Score,
		})
	case errors.As(err, &incompleteData):
		c.JSON(http.StatusConflict, gin.H{
			"error":   err.Error(),
			"reason":  "incomplete_data",
			"missing": incompleteData.Missing,
		})
	case errors.Is(err, service.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"reason":    "concurrency_conflict",
			"retryable": true,
		})
	case errors.Is(err, service.ErrMatchCompleted),
		errors.Is(err, service.ErrRoundFinalized),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Internal server error in handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
