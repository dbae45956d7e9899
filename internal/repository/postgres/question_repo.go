package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, mapError(err, "get question")
	}
	return &question, nil
}

// FindRandom возвращает до limit случайных вопросов под фильтр
func (r *QuestionRepo) FindRandom(ctx context.Context, filter repository.QuestionFilter, limit int) ([]entity.Question, error) {
	query := r.db.WithContext(ctx).Model(&entity.Question{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != nil {
		query = query.Where("difficulty = ?", *filter.Difficulty)
	}

	var questions []entity.Question
	if err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error; err != nil {
		return nil, mapError(err, "random questions")
	}
	return questions, nil
}

// Categories возвращает отсортированный список различных категорий
func (r *QuestionRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&entity.Question{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, mapError(err, "question categories")
	}
	return categories, nil
}

// CreateBatch вставляет вопросы пачками в одной транзакции
func (r *QuestionRepo) CreateBatch(ctx context.Context, questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return mapError(tx.CreateInBatches(questions, 100).Error, "create questions")
	})
}
