package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/karate-api/internal/handler/dto"
	"github.com/yourusername/karate-api/internal/service"
)

// RoundHandler обрабатывает запросы жизненного цикла раундов
type RoundHandler struct {
	roundService *service.RoundService
}

// NewRoundHandler создает новый обработчик раундов
func NewRoundHandler(roundService *service.RoundService) *RoundHandler {
	return &RoundHandler{roundService: roundService}
}

// CreateRoundRequest представляет запрос на создание раунда
type CreateRoundRequest struct {
	Round          string `json:"round" binding:"required"`
	ParticipantIDs []uint `json:"participant_ids" binding:"required,min=1"`
}

// CreateRound создает сущности раунда для набора участников
// POST /api/categories/:id/rounds
func (h *RoundHandler) CreateRound(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint) // Получаем из контекста

	var req CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	performances, matches, err := h.roundService.CreateRound(c.Request.Context(), categoryID, req.Round, req.ParticipantIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if performances != nil {
		c.JSON(http.StatusCreated, gin.H{
			"round":        req.Round,
			"performances": dto.NewListPerformanceResponse(performances, false),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"round":   req.Round,
		"matches": dto.NewListMatchResponse(matches),
	})
}

// FinalizeRoundRequest представляет запрос на финализацию раунда
type FinalizeRoundRequest struct {
	Round string `json:"round" binding:"required"`
}

// FinalizeRound финализирует раунд и продвигает категорию по сетке
// POST /api/categories/:id/rounds/finalize
func (h *RoundHandler) FinalizeRound(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req FinalizeRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.roundService.FinalizeRound(c.Request.Context(), categoryID, req.Round)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRoundStandings возвращает текущее состояние раунда для табло секретариата
// GET /api/categories/:id/rounds/:round
func (h *RoundHandler) GetRoundStandings(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	round := c.Param("round")

	performances, matches, finalized, err := h.roundService.GetRoundStandings(categoryID, round)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := gin.H{
		"category_id": categoryID,
		"round":       round,
		"finalized":   finalized,
	}
	if performances != nil {
		response["performances"] = dto.NewListPerformanceResponse(performances, finalized)
	}
	if matches != nil {
		response["matches"] = dto.NewListMatchResponse(matches)
	}

	c.JSON(http.StatusOK, response)
}

// GetPlacements возвращает итоговый протокол категории
// GET /api/categories/:id/placements
func (h *RoundHandler) GetPlacements(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	entries, err := h.roundService.GetPlacements(categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category_id": categoryID,
		"placements":  entries,
	})
}

// ExportPlacements экспортирует итоговый протокол в CSV или Excel формате
// GET /api/categories/:id/placements/export?format=csv|xlsx
func (h *RoundHandler) ExportPlacements(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	format := c.DefaultQuery("format", "xlsx")

	entries, err := h.roundService.GetPlacements(categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("category_%d_placements_%s", categoryID, time.Now().Format("2006-01-02"))

	switch format {
	case "csv":
		h.exportCSV(c, entries, filename)
	default:
		h.exportXLSX(c, entries, filename)
	}
}

// exportCSV экспортирует протокол в CSV с правильным экранированием спецсимволов
func (h *RoundHandler) exportCSV(c *gin.Context, entries []service.PlacementEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Место", "Участник", "Пояс", "Итоговый балл"})

	// Данные
	for _, e := range entries {
		finalScore := ""
		if e.FinalScore != nil {
			finalScore = strconv.FormatFloat(*e.FinalScore, 'f', 2, 64)
		}
		writer.Write([]string{
			strconv.Itoa(e.Place),
			sanitizeForExcel(e.DisplayName),
			sanitizeForExcel(e.Belt),
			finalScore,
		})
	}
}

// exportXLSX экспортирует протокол в Excel с использованием StreamWriter
func (h *RoundHandler) exportXLSX(c *gin.Context, entries []service.PlacementEntry, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Протокол"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[RoundHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Место", "Участник", "Пояс", "Итоговый балл"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[RoundHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, e := range entries {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		var finalScore interface{}
		if e.FinalScore != nil {
			finalScore = *e.FinalScore
		} else {
			finalScore = ""
		}

		row := []interface{}{e.Place, sanitizeForExcel(e.DisplayName), sanitizeForExcel(e.Belt), finalScore}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[RoundHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[RoundHandler] Ошибка при Flush: %v", err)
	}

	// Записываем в response
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[RoundHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
