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

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/identity"
	"github.com/yourusername/trivia-backend/internal/handler/dto"
	"github.com/yourusername/trivia-backend/internal/middleware"
	"github.com/yourusername/trivia-backend/internal/service"
)

// ScoreHandler обрабатывает запросы, связанные с результатами игр
type ScoreHandler struct {
	scoreService *service.ScoreService
	resolver     *service.IdentityResolver
}

// NewScoreHandler создает новый обработчик результатов
func NewScoreHandler(scoreService *service.ScoreService, resolver *service.IdentityResolver) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		resolver:     resolver,
	}
}

// SubmitScore сохраняет результат авторизованного игрока
// POST /api/scores
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		return
	}

	var req service.ScoreSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	author, err := h.resolver.ResolveAuthor(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	score, err := h.scoreService.Submit(c.Request.Context(), author, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitScoreResponse{
		Message: "Score added successfully",
		Score:   dto.NewScoreResponse(score),
	})
}

// SubmitLegacyScore сохраняет гостевой результат без авторизации
// POST /api/scores/legacy
func (h *ScoreHandler) SubmitLegacyScore(c *gin.Context) {
	var req dto.LegacyScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	author := service.GuestAuthor(req.PlayerName, req.Username)
	score, err := h.scoreService.Submit(c.Request.Context(), author, req.ScoreSubmission)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitScoreResponse{
		Message: "Score added successfully (legacy)",
		Score:   dto.NewScoreResponse(score),
	})
}

// ListScores возвращает свои результаты, результаты никнейма или последние глобальные
// GET /api/scores?nickname=
func (h *ScoreHandler) ListScores(c *gin.Context) {
	res, ok := h.resolveReader(c)
	if !ok {
		return
	}

	scores, err := h.scoreService.List(c.Request.Context(), res)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewScoreListResponse(scores))
}

// GetStats возвращает агрегированную статистику
// GET /api/scores/stats?nickname=
func (h *ScoreHandler) GetStats(c *gin.Context) {
	res, ok := h.resolveReader(c)
	if !ok {
		return
	}

	stats, err := h.scoreService.Stats(c.Request.Context(), res)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetLeaderboard возвращает лучшие результаты
// GET /api/scores/leaderboard?limit=
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer", "error_type": "validation_error"})
			return
		}
		limit = parsed
	}

	scores, err := h.scoreService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	total, err := h.scoreService.Count(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{
		Scores: dto.NewScoreListResponse(scores).Scores,
		Total:  total,
	})
}

// ExportScores экспортирует тот же список, что и ListScores, в CSV или Excel
// GET /api/scores/export?nickname=&format=csv|xlsx
func (h *ScoreHandler) ExportScores(c *gin.Context) {
	res, ok := h.resolveReader(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx", "error_type": "validation_error"})
		return
	}

	scores, err := h.scoreService.List(c.Request.Context(), res)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("scores_%s_%s", identity.Kind(res), time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, scores, filename)
	default:
		h.exportCSV(c, scores, filename)
	}
}

// resolveReader определяет фильтр чтения; при ошибке ответ уже отправлен
func (h *ScoreHandler) resolveReader(c *gin.Context) (identity.Resolution, bool) {
	var userID *uint
	if id, ok := middleware.UserIDFromContext(c); ok {
		userID = &id
	}

	res, err := h.resolver.ResolveReader(c.Request.Context(), userID, c.Query("nickname"))
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	return res, true
}

var exportHeaders = []string{"Дата", "Игрок", "Normal", "Trivialer", "Score", "Категория", "Сложность", "Отвечено", "Правильно"}

func exportRow(s *entity.Score) []string {
	name := ""
	if n := service.DisplayName(*s); n != nil {
		name = *n
	}
	return []string{
		s.Date.UTC().Format(dto.DateFormat),
		sanitizeForExcel(name),
		strconv.Itoa(service.NormalValue(*s)),
		strconv.Itoa(service.TrivialerValue(*s)),
		strconv.Itoa(s.Score),
		sanitizeForExcel(derefString(s.Category)),
		optionalInt(s.Difficulty),
		optionalInt(s.QuestionsAnswered),
		optionalInt(s.QuestionsCorrect),
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *ScoreHandler) exportCSV(c *gin.Context, scores []entity.Score, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range scores {
		writer.Write(exportRow(&scores[i]))
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *ScoreHandler) exportXLSX(c *gin.Context, scores []entity.Score, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ScoreHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range scores {
		s := &scores[i]
		name := ""
		if n := service.DisplayName(*s); n != nil {
			name = *n
		}
		row := []interface{}{
			s.Date.UTC().Format(dto.DateFormat),
			sanitizeForExcel(name),
			service.NormalValue(*s),
			service.TrivialerValue(*s),
			s.Score,
			sanitizeForExcel(derefString(s.Category)),
			optionalInt(s.Difficulty),
			optionalInt(s.QuestionsAnswered),
			optionalInt(s.QuestionsCorrect),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			log.Printf("[ScoreHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ScoreHandler] Ошибка при Flush: %v", err)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ScoreHandler] Ошибка записи Excel в response: %v", err)
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

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
