package repository

import (
	"context"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// ScoreRepository определяет методы для работы с результатами игр.
// Записи только добавляются: методов изменения и удаления нет.
// Все выборки подгружают связанного пользователя (Score.User).
type ScoreRepository interface {
	Create(ctx context.Context, score *entity.Score) error
	// FindByUser возвращает все результаты пользователя, новые первыми
	FindByUser(ctx context.Context, userID uint) ([]entity.Score, error)
	// FindByPlayerName ищет по точному совпадению player_name, новые первыми
	FindByPlayerName(ctx context.Context, playerName string) ([]entity.Score, error)
	// FindRecent возвращает последние limit результатов
	FindRecent(ctx context.Context, limit int) ([]entity.Score, error)
	FindAll(ctx context.Context) ([]entity.Score, error)
	// TopByScore сортирует по legacy-полю score
	TopByScore(ctx context.Context, limit int) ([]entity.Score, error)
	Count(ctx context.Context) (int64, error)
}
