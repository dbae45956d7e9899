package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

const categoriesCacheKey = "questions:categories"

// QuestionService отдаёт случайные вопросы и список категорий
type QuestionService struct {
	questionRepo  repository.QuestionRepository
	cacheRepo     repository.CacheRepository
	defaultAmount int
	maxAmount     int
	categoriesTTL time.Duration
}

// NewQuestionService создает сервис вопросов. cacheRepo может быть nil.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
	defaultAmount, maxAmount int,
	categoriesTTL time.Duration,
) (*QuestionService, error) {
	if questionRepo == nil {
		return nil, errors.New("questionRepo is required")
	}
	if maxAmount <= 0 {
		return nil, fmt.Errorf("maxAmount must be positive, got %d", maxAmount)
	}
	if defaultAmount <= 0 || defaultAmount > maxAmount {
		defaultAmount = maxAmount
	}
	return &QuestionService{
		questionRepo:  questionRepo,
		cacheRepo:     cacheRepo,
		defaultAmount: defaultAmount,
		maxAmount:     maxAmount,
		categoriesTTL: categoriesTTL,
	}, nil
}

// Random возвращает до amount случайных вопросов.
// amount <= 0 заменяется значением по умолчанию, больше maxAmount не отдаём.
func (s *QuestionService) Random(ctx context.Context, filter repository.QuestionFilter, amount int) ([]entity.Question, error) {
	if amount <= 0 {
		amount = s.defaultAmount
	}
	if amount > s.maxAmount {
		amount = s.maxAmount
	}
	filter.Category = strings.TrimSpace(filter.Category)

	questions, err := s.questionRepo.FindRandom(ctx, filter, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}

// GetByID возвращает вопрос по ID
func (s *QuestionService) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Categories возвращает список категорий; результат кешируется в Redis
func (s *QuestionService) Categories(ctx context.Context) ([]string, error) {
	if s.cacheRepo != nil {
		var cached []string
		err := s.cacheRepo.GetJSON(ctx, categoriesCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[QuestionService] Ошибка чтения кеша категорий: %v", err)
		}
	}

	categories, err := s.questionRepo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}

	if s.cacheRepo != nil && s.categoriesTTL > 0 {
		if err := s.cacheRepo.SetJSON(ctx, categoriesCacheKey, categories, s.categoriesTTL); err != nil {
			log.Printf("[QuestionService] Ошибка записи кеша категорий: %v", err)
		}
	}
	return categories, nil
}

// Import сохраняет пачку вопросов и сбрасывает кеш категорий
func (s *QuestionService) Import(ctx context.Context, questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
			return fmt.Errorf("%w: question #%d has no text or correct answer", apperrors.ErrValidation, i)
		}
	}

	if err := s.questionRepo.CreateBatch(ctx, questions); err != nil {
		return fmt.Errorf("failed to import questions: %w", err)
	}
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Delete(ctx, categoriesCacheKey); err != nil {
			log.Printf("[QuestionService] Ошибка сброса кеша категорий: %v", err)
		}
	}
	log.Printf("[QuestionService] Imported %d questions", len(questions))
	return nil
}
