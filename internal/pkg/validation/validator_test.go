package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

type sampleRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Points   *int   `json:"points" validate:"omitempty,gte=0"`
	Mode     string `json:"mode" validate:"omitempty,oneof=csv xlsx"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct_Valid(t *testing.T) {
	req := sampleRequest{Username: "alice", Email: "a@example.com", Points: intPtr(0)}

	assert.NoError(t, ValidateStruct(&req))
}

func TestValidateStruct_FieldMessages(t *testing.T) {
	req := sampleRequest{Username: "al", Email: "not-an-email", Points: intPtr(-1), Mode: "pdf"}

	err := ValidateStruct(&req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "Ошибка валидации должна сопоставляться с ErrValidation")

	fields, ok := FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, "must be at least 3 characters", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be a non-negative integer", fields["points"])
	assert.Equal(t, "must be one of: csv xlsx", fields["mode"])
}

func TestValidateStruct_Required(t *testing.T) {
	err := ValidateStruct(&sampleRequest{})
	require.Error(t, err)

	fields, ok := FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["username"])
	assert.Equal(t, "is required", fields["email"])
	assert.NotContains(t, fields, "points", "Необязательное поле без значения не проверяется")
}

func TestNewError(t *testing.T) {
	err := NewError("nickname", "is required")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "validation failed: nickname: is required", err.Error())
}

func TestFieldsOf_NotValidation(t *testing.T) {
	_, ok := FieldsOf(apperrors.ErrNotFound)
	assert.False(t, ok)
}
