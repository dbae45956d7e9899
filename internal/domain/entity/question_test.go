package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsCorrect(t *testing.T) {
	question := &Question{
		ID:               1,
		Text:             "What is the capital of France?",
		Category:         "Geography",
		Difficulty:       1,
		CorrectAnswer:    "Paris",
		IncorrectAnswers: StringArray{"London", "Berlin", "Madrid"},
	}

	assert.True(t, question.IsCorrect("Paris"), "IsCorrect должен вернуть true для правильного ответа")
	assert.True(t, question.IsCorrect("  Paris "), "Пробелы по краям не учитываются")
	assert.False(t, question.IsCorrect("paris"), "Регистр учитывается")
	assert.False(t, question.IsCorrect("London"), "IsCorrect должен вернуть false для неправильного ответа")
	assert.False(t, question.IsCorrect(""), "Пустой ответ всегда неверный")
}

func TestQuestion_Options(t *testing.T) {
	question := &Question{
		CorrectAnswer:    "4",
		IncorrectAnswers: StringArray{"3", "5"},
	}

	options := question.Options()

	assert.Len(t, options, 3)
	assert.ElementsMatch(t, []string{"3", "4", "5"}, options)
}

func TestStringArray_ScanValue(t *testing.T) {
	// Act: Value -> Scan
	original := StringArray{"London", "Berlin"}
	raw, err := original.Value()
	require.NoError(t, err)

	var restored StringArray
	require.NoError(t, restored.Scan(raw))

	// Assert
	assert.Equal(t, original, restored)
}

func TestStringArray_ScanNilAndEmpty(t *testing.T) {
	var fromNil StringArray
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil, "NULL из базы превращается в пустой массив")

	var fromEmpty StringArray
	require.NoError(t, fromEmpty.Scan([]byte{}))
	assert.Empty(t, fromEmpty)

	var fromString StringArray
	require.NoError(t, fromString.Scan(`["a","b"]`))
	assert.Equal(t, StringArray{"a", "b"}, fromString)
}

func TestStringArray_ScanInvalidType(t *testing.T) {
	var arr StringArray
	err := arr.Scan(42)
	assert.Error(t, err, "Неподдерживаемый тип должен вернуть ошибку")
}

func TestStringArray_ValueEmpty(t *testing.T) {
	raw, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), raw, "nil сохраняется как пустой JSON массив")
}
