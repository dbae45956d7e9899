package repository

import (
	"context"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями.
// Удаления пользователей нет; из изменяемых полей только пароль.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	// GetByUsername ищет по точному совпадению имени
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ExistsUsernameFold проверяет занятость имени без учёта регистра
	ExistsUsernameFold(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}
