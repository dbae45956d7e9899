package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// ScoreRepo реализует repository.ScoreRepository
type ScoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo создает новый репозиторий результатов
func NewScoreRepo(db *gorm.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Create вставляет запись одним INSERT
func (r *ScoreRepo) Create(ctx context.Context, score *entity.Score) error {
	// Omit User: связанный пользователь только для чтения
	return mapError(r.db.WithContext(ctx).Omit("User").Create(score).Error, "create score")
}

// FindByUser возвращает все результаты пользователя, новые первыми
func (r *ScoreRepo) FindByUser(ctx context.Context, userID uint) ([]entity.Score, error) {
	return r.find(r.base(ctx).Where("user_id = ?", userID), "find scores by user")
}

// FindByPlayerName возвращает результаты по точному player_name, новые первыми
func (r *ScoreRepo) FindByPlayerName(ctx context.Context, playerName string) ([]entity.Score, error) {
	return r.find(r.base(ctx).Where("player_name = ?", playerName), "find scores by player name")
}

// FindRecent возвращает последние limit результатов
func (r *ScoreRepo) FindRecent(ctx context.Context, limit int) ([]entity.Score, error) {
	return r.find(r.base(ctx).Limit(limit), "find recent scores")
}

// FindAll возвращает все результаты без ограничения
func (r *ScoreRepo) FindAll(ctx context.Context) ([]entity.Score, error) {
	return r.find(r.base(ctx), "find all scores")
}

// TopByScore возвращает лучшие результаты по legacy-полю score
func (r *ScoreRepo) TopByScore(ctx context.Context, limit int) ([]entity.Score, error) {
	var scores []entity.Score
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("score DESC, date DESC, id DESC").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		return nil, mapError(err, "top scores")
	}
	return scores, nil
}

// Count возвращает общее количество результатов
func (r *ScoreRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Score{}).Count(&total).Error; err != nil {
		return 0, mapError(err, "count scores")
	}
	return total, nil
}

// base - общий запрос: с пользователем, новые первыми (id как tie-breaker)
func (r *ScoreRepo) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("User").Order("date DESC, id DESC")
}

func (r *ScoreRepo) find(query *gorm.DB, what string) ([]entity.Score, error) {
	var scores []entity.Score
	if err := query.Find(&scores).Error; err != nil {
		return nil, mapError(err, what)
	}
	return scores, nil
}
