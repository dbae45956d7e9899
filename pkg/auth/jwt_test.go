package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	// Arrange
	svc, err := NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)
	user := &entity.User{ID: 42, Username: "alice"}

	// Act
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	claims, err := svc.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_Expired(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken(&entity.User{ID: 1, Username: "old"})
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrExpiredToken, "Просроченный токен должен возвращать ErrExpiredToken")
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTService("secret-a", time.Hour)
	verifier, _ := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&entity.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestJWTService_Malformed(t *testing.T) {
	svc, _ := NewJWTService("secret", time.Hour)

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc, _ := NewJWTService("secret", time.Hour)

	claims := &JWTCustomClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "Принимается только HS256")
}

func TestNewJWTService_Defaults(t *testing.T) {
	_, err := NewJWTService("", time.Hour)
	assert.Error(t, err)

	svc, err := NewJWTService("s", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.Expiration())

	_, err = svc.GenerateToken(nil)
	assert.Error(t, err)
}
