// Package validation проверяет входные DTO через go-playground/validator.
// Ошибки возвращаются как *Error с сообщениями по полям (имена полей берутся
// из json-тегов) и совместимы с errors.Is(err, apperrors.ErrValidation).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yourusername/trivia-backend/internal/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error содержит ошибки валидации по полям
type Error struct {
	fields map[string]string
}

// NewError создаёт ошибку валидации для одного поля
func NewError(field, message string) *Error {
	return &Error{fields: map[string]string{field: message}}
}

// Fields возвращает копию карты поле -> сообщение
func (e *Error) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.fields[k]))
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation.Error(), strings.Join(parts, "; "))
}

// Unwrap позволяет errors.Is(err, apperrors.ErrValidation)
func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// GetValidator возвращает общий экземпляр валидатора
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct проверяет структуру. Возвращает nil или *Error.
func ValidateStruct(s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &Error{fields: map[string]string{"_": err.Error()}}
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = translateError(fe)
	}
	return &Error{fields: fields}
}

// FieldsOf извлекает сообщения по полям из ошибки, если это ошибка валидации
func FieldsOf(err error) (map[string]string, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.Fields(), true
	}
	return nil, false
}

var errorMessageTemplates = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"alphanum": "must contain only letters and digits",
}

func translateError(fe validator.FieldError) string {
	if msg, ok := errorMessageTemplates[fe.Tag()]; ok {
		return msg
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return "must be a non-negative integer"
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
