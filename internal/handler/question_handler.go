package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-backend/internal/domain/repository"
	"github.com/yourusername/trivia-backend/internal/handler/dto"
	"github.com/yourusername/trivia-backend/internal/service"
)

// QuestionHandler обрабатывает запросы к банку вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions возвращает случайную выборку вопросов
// GET /api/questions?category=&difficulty=&amount=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filter := repository.QuestionFilter{Category: c.Query("category")}

	if raw := c.Query("difficulty"); raw != "" {
		difficulty, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "difficulty must be an integer", "error_type": "validation_error"})
			return
		}
		filter.Difficulty = &difficulty
	}

	amount := 0
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive integer", "error_type": "validation_error"})
			return
		}
		amount = parsed
	}

	questions, err := h.questionService.Random(c.Request.Context(), filter, amount)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionListResponse(questions))
}

// ListCategories возвращает список категорий
// GET /api/questions/categories
func (h *QuestionHandler) ListCategories(c *gin.Context) {
	categories, err := h.questionService.Categories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
