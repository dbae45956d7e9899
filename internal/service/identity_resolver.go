package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/identity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

// IdentityResolver определяет, от чьего имени читаются и пишутся результаты
type IdentityResolver struct {
	userRepo repository.UserRepository
}

// NewIdentityResolver создает резолвер
func NewIdentityResolver(userRepo repository.UserRepository) (*IdentityResolver, error) {
	if userRepo == nil {
		return nil, errors.New("userRepo is required")
	}
	return &IdentityResolver{userRepo: userRepo}, nil
}

// ResolveReader выбирает фильтр для чтения.
// userID заполнен только при валидном токене; тогда никнейм игнорируется.
func (r *IdentityResolver) ResolveReader(ctx context.Context, userID *uint, nickname string) (identity.Resolution, error) {
	if userID != nil {
		user, err := r.lookupUser(ctx, *userID)
		if err != nil {
			return nil, err
		}
		return identity.Authenticated{User: user}, nil
	}

	// Фильтр точный, как и сохранённое имя гостя; пустой никнейм означает без фильтра
	if strings.TrimSpace(nickname) != "" {
		return identity.GuestFilter{Nickname: nickname}, nil
	}
	return identity.Unfiltered{}, nil
}

// ResolveAuthor возвращает автора для авторизованной записи
func (r *IdentityResolver) ResolveAuthor(ctx context.Context, userID uint) (identity.Author, error) {
	user, err := r.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return identity.Authenticated{User: user}, nil
}

// GuestAuthor возвращает гостевого автора: player_name, затем username, затем "Guest"
func GuestAuthor(playerName, username *string) identity.Author {
	return identity.Guest{DisplayName: guestDisplayName(playerName, username)}
}

func (r *IdentityResolver) lookupUser(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Токен валиден, а пользователя нет: удалений не бывает, это аномалия данных
			log.Printf("[IdentityResolver] WARNING: token subject %d has no user record", userID)
			return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}
