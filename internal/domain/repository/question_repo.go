package repository

import (
	"context"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// QuestionFilter задаёт необязательные фильтры выборки вопросов
type QuestionFilter struct {
	Category   string
	Difficulty *int
}

// QuestionRepository определяет методы для чтения банка вопросов
type QuestionRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	// FindRandom возвращает до limit случайных вопросов, подходящих под фильтр
	FindRandom(ctx context.Context, filter QuestionFilter, limit int) ([]entity.Question, error)
	Categories(ctx context.Context) ([]string, error)
	CreateBatch(ctx context.Context, questions []entity.Question) error
}
