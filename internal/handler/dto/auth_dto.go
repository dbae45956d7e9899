package dto

import "github.com/yourusername/trivia-backend/internal/domain/entity"

// RegisterRequest - полная регистрация
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// NicknameRequest - регистрация или проверка никнейма
type NicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,min=2,max=80"`
}

// LoginRequest - вход по имени и паролю
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest - смена пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse - публичные данные пользователя
type UserResponse struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        *string `json:"email"`
	NicknameOnly bool    `json:"nickname_only"`
	CreatedAt    string  `json:"created_at"`
}

// AuthResponse - ответ на вход и регистрацию никнейма
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	UserID      uint         `json:"user_id"`
	Username    string       `json:"username"`
	User        UserResponse `json:"user"`
}

// NewUserResponse конвертирует пользователя без хеша пароля
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		NicknameOnly: u.IsNicknameOnly(),
		CreatedAt:    u.CreatedAt.UTC().Format(DateFormat),
	}
}

// NewAuthResponse собирает ответ с токеном
func NewAuthResponse(token string, expiresIn int, u *entity.User) AuthResponse {
	return AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		UserID:      u.ID,
		Username:    u.Username,
		User:        NewUserResponse(u),
	}
}
