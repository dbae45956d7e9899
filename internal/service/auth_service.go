package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
	"github.com/yourusername/trivia-backend/internal/pkg/validation"
)

// Границы длины имени после обрезки пробелов, совпадают с VARCHAR(80) в users
const (
	minUsernameLength = 3
	minNicknameLength = 2
	maxNameLength     = 80
)

// TokenIssuer выпускает access-токены для пользователей
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, error)
}

// AuthResult - токен и пользователь после входа или регистрации никнейма
type AuthResult struct {
	AccessToken string
	User        *entity.User
}

// AuthService предоставляет методы для регистрации и входа
type AuthService struct {
	userRepo     repository.UserRepository
	tokens       TokenIssuer
	emailService EmailService
}

// NewAuthService создает сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, emailService EmailService) (*AuthService, error) {
	if userRepo == nil {
		return nil, errors.New("userRepo is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &AuthService{
		userRepo:     userRepo,
		tokens:       tokens,
		emailService: emailService,
	}, nil
}

// Register создаёт полноценный аккаунт с email и паролем
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := checkNameLength("username", username, minUsernameLength); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &entity.User{Username: username, Email: &email}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[AuthService] User registered: id=%d username=%s", user.ID, user.Username)

	// Письмо не влияет на результат регистрации
	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.emailService.SendWelcome(sendCtx, email, username); err != nil {
		log.Printf("[AuthService] WARNING: welcome email to user %d failed: %v", user.ID, err)
	}

	return user, nil
}

// RegisterNickname создаёт аккаунт только с никнеймом и сразу выдаёт токен.
// У такого пользователя нет email и пароля.
func (s *AuthService) RegisterNickname(ctx context.Context, nickname string) (*AuthResult, error) {
	nickname = strings.TrimSpace(nickname)
	if err := checkNameLength("nickname", nickname, minNicknameLength); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, nickname); err != nil {
		return nil, err
	}

	user := &entity.User{Username: nickname}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[AuthService] Nickname user registered: id=%d username=%s", user.ID, user.Username)

	return s.issue(user)
}

// CheckNickname возвращает true, если никнейм свободен (без учёта регистра)
func (s *AuthService) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, nil
	}
	exists, err := s.userRepo.ExistsUsernameFold(ctx, nickname)
	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}
	return !exists, nil
}

// Login проверяет пароль и выдаёт токен. Поиск по точному совпадению имени.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	return s.issue(user)
}

// Me возвращает текущего пользователя
func (s *AuthService) Me(ctx context.Context, userID uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] WARNING: token subject %d has no user record", userID)
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword меняет пароль после проверки текущего
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, *user.PasswordHash); err != nil {
		return err
	}

	log.Printf("[AuthService] Password changed for user %d", user.ID)
	return nil
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string) error {
	exists, err := s.userRepo.ExistsUsernameFold(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: username already exists", apperrors.ErrConflict)
	}
	return nil
}

func (s *AuthService) issue(user *entity.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

// checkNameLength проверяет уже обрезанное имя: binding видит значение до TrimSpace
func checkNameLength(field, name string, minLen int) error {
	n := utf8.RuneCountInString(name)
	if n < minLen {
		return validation.NewError(field, fmt.Sprintf("must be at least %d characters", minLen))
	}
	if n > maxNameLength {
		return validation.NewError(field, fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return nil
}
