package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/identity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	"github.com/yourusername/trivia-backend/internal/metrics"
	"github.com/yourusername/trivia-backend/internal/pkg/validation"
)

// ScorePublisher получает уведомление о каждом сохранённом результате
type ScorePublisher interface {
	PublishScore(score *entity.Score)
}

// ScoreService отвечает за запись результатов, выборки и статистику
type ScoreService struct {
	scoreRepo        repository.ScoreRepository
	publisher        ScorePublisher
	listLimit        int
	leaderboardLimit int
	now              func() time.Time
}

// NewScoreService создает сервис результатов.
// publisher может быть nil, тогда live-лента не уведомляется.
func NewScoreService(scoreRepo repository.ScoreRepository, publisher ScorePublisher, listLimit, leaderboardLimit int) (*ScoreService, error) {
	if scoreRepo == nil {
		return nil, errors.New("scoreRepo is required")
	}
	if listLimit <= 0 {
		return nil, fmt.Errorf("listLimit must be positive, got %d", listLimit)
	}
	if leaderboardLimit <= 0 || leaderboardLimit > listLimit {
		leaderboardLimit = listLimit
	}
	return &ScoreService{
		scoreRepo:        scoreRepo,
		publisher:        publisher,
		listLimit:        listLimit,
		leaderboardLimit: leaderboardLimit,
		now:              time.Now,
	}, nil
}

// Submit валидирует и сохраняет один результат игры
func (s *ScoreService) Submit(ctx context.Context, author identity.Author, payload ScoreSubmission) (*entity.Score, error) {
	if err := validation.ValidateStruct(payload); err != nil {
		return nil, err
	}

	normalized := NormalizeSubmission(payload)
	score := &entity.Score{
		NormalScore:       normalized.Normal,
		TrivialerScore:    normalized.Trivialer,
		Score:             normalized.Legacy,
		Category:          payload.Category,
		Difficulty:        payload.Difficulty,
		QuestionsAnswered: payload.QuestionsAnswered,
		QuestionsCorrect:  payload.QuestionsCorrect,
		Date:              s.now().UTC(),
	}

	switch a := author.(type) {
	case identity.Authenticated:
		if a.User == nil {
			return nil, errors.New("authenticated author without user")
		}
		// Имя фиксируется на момент записи, клиентское имя не учитывается
		userID := a.User.ID
		name := a.User.Username
		score.UserID = &userID
		score.PlayerName = &name
		score.User = a.User
	case identity.Guest:
		name := a.DisplayName
		if name == "" {
			name = GuestPlayerName
		}
		// player_name - VARCHAR(80)
		if utf8.RuneCountInString(name) > maxNameLength {
			return nil, validation.NewError("player_name", fmt.Sprintf("must be at most %d characters", maxNameLength))
		}
		score.PlayerName = &name
	default:
		return nil, fmt.Errorf("unsupported author %T", author)
	}

	if err := s.scoreRepo.Create(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	kind := identity.Kind(author)
	metrics.RecordScoreSubmitted(kind)
	log.Printf("[ScoreService] Score %d saved: author=%s player=%q normal=%d trivialer=%d",
		score.ID, kind, *score.PlayerName, score.NormalScore, score.TrivialerScore)

	if s.publisher != nil {
		s.publisher.PublishScore(score)
	}
	return score, nil
}

// List возвращает результаты для выбранного фильтра, новые первыми.
// Только глобальный список ограничен listLimit.
func (s *ScoreService) List(ctx context.Context, res identity.Resolution) ([]entity.Score, error) {
	var (
		scores []entity.Score
		err    error
	)

	switch r := res.(type) {
	case identity.Authenticated:
		scores, err = s.scoreRepo.FindByUser(ctx, r.User.ID)
	case identity.GuestFilter:
		scores, err = s.scoreRepo.FindByPlayerName(ctx, r.Nickname)
	case identity.Unfiltered:
		scores, err = s.scoreRepo.FindRecent(ctx, s.listLimit)
	default:
		return nil, fmt.Errorf("unsupported resolution %T", res)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	metrics.RecordScoreRead("list", identity.Kind(res))
	return scores, nil
}

// Stats считает статистику по тем же фильтрам, что и List, но без лимита
func (s *ScoreService) Stats(ctx context.Context, res identity.Resolution) (Stats, error) {
	var (
		scores []entity.Score
		err    error
	)

	switch r := res.(type) {
	case identity.Authenticated:
		scores, err = s.scoreRepo.FindByUser(ctx, r.User.ID)
	case identity.GuestFilter:
		scores, err = s.scoreRepo.FindByPlayerName(ctx, r.Nickname)
	case identity.Unfiltered:
		scores, err = s.scoreRepo.FindAll(ctx)
	default:
		return Stats{}, fmt.Errorf("unsupported resolution %T", res)
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load scores for stats: %w", err)
	}

	metrics.RecordScoreRead("stats", identity.Kind(res))
	return AggregateStats(scores), nil
}

// Leaderboard возвращает лучшие результаты по legacy-полю score.
// limit <= 0 означает размер по умолчанию; больше listLimit не отдаём.
func (s *ScoreService) Leaderboard(ctx context.Context, limit int) ([]entity.Score, error) {
	if limit <= 0 {
		limit = s.leaderboardLimit
	}
	if limit > s.listLimit {
		limit = s.listLimit
	}

	scores, err := s.scoreRepo.TopByScore(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	metrics.RecordScoreRead("leaderboard", "global")
	return scores, nil
}

// Count возвращает общее количество результатов
func (s *ScoreService) Count(ctx context.Context) (int64, error) {
	return s.scoreRepo.Count(ctx)
}
