package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-backend/internal/handler/dto"
	"github.com/yourusername/trivia-backend/internal/middleware"
	"github.com/yourusername/trivia-backend/internal/service"
)

// GameIDContextKey - ключ контекста, куда ExtractUUIDParam кладёт ID игры
const GameIDContextKey = "game_id"

// GameHandler обрабатывает запросы игровых сессий
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// StartGame начинает новую игру
// POST /api/games
func (h *GameHandler) StartGame(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		return
	}

	var req dto.StartGameRequest
	// Пустое тело допустимо: все параметры необязательные
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		handleBindError(c, err)
		return
	}

	state, err := h.gameService.Start(c.Request.Context(), userID, service.StartGameInput{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Amount:     req.Amount,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGameStateResponse(state))
}

// GetGame возвращает состояние игры владельцу
// GET /api/games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		return
	}

	state, err := h.gameService.Get(c.Request.Context(), userID, c.GetString(GameIDContextKey))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameStateResponse(state))
}

// SubmitAnswer принимает ответ на текущий вопрос
// POST /api/games/:id/answer
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	result, err := h.gameService.Answer(c.Request.Context(), userID, c.GetString(GameIDContextKey), req.Answer)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnswerResponse(result))
}
