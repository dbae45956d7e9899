package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

func TestAggregateStats_Empty(t *testing.T) {
	stats := AggregateStats(nil)

	assert.Equal(t, Stats{}, stats, "Для пустого набора все поля должны быть нулевыми")
	assert.Equal(t, 0.0, stats.Accuracy)
}

func TestAggregateStats_SingleGuestRecord(t *testing.T) {
	// Arrange
	records := []entity.Score{{
		PlayerName:        strPtr("Alice"),
		NormalScore:       80,
		TrivialerScore:    50,
		Score:             80,
		QuestionsAnswered: intPtr(10),
		QuestionsCorrect:  intPtr(8),
	}}

	// Act
	stats := AggregateStats(records)

	// Assert
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 80.0, stats.AverageNormalScore)
	assert.Equal(t, 50.0, stats.AverageTrivialerScore)
	assert.Equal(t, 80, stats.HighestNormalScore)
	assert.Equal(t, 50, stats.HighestTrivialerScore)
	assert.Equal(t, 10, stats.TotalQuestions)
	assert.Equal(t, 8, stats.CorrectAnswers)
	assert.InDelta(t, 80.0, stats.Accuracy, 1e-9)
}

func TestAggregateStats_LegacyFallback(t *testing.T) {
	// Запись до миграции: normal_score = 0, есть только score
	records := []entity.Score{
		{NormalScore: 0, Score: 42},
		{NormalScore: 10, Score: 10},
	}

	stats := AggregateStats(records)

	assert.Equal(t, 26.0, stats.AverageNormalScore, "Legacy score должен участвовать в среднем вместо 0")
	assert.Equal(t, 42, stats.HighestNormalScore)
	assert.Equal(t, stats.AverageNormalScore, stats.AverageScore, "average_score зеркалит average_normal_score")
	assert.Equal(t, stats.HighestNormalScore, stats.HighestScore)
	// trivialer тоже откатывается к score, когда своего значения нет
	assert.Equal(t, 26.0, stats.AverageTrivialerScore)
}

func TestAggregateStats_AverageWithinBounds(t *testing.T) {
	records := []entity.Score{
		{NormalScore: 5, Score: 5},
		{NormalScore: 17, Score: 17},
		{NormalScore: 0, Score: 0},
		{NormalScore: 3, Score: 3, TrivialerScore: 9},
	}

	stats := AggregateStats(records)

	assert.Equal(t, 4, stats.TotalGames)
	assert.InDelta(t, 25.0/4.0, stats.AverageNormalScore, 1e-9, "Среднее без округления")
	assert.GreaterOrEqual(t, stats.AverageNormalScore, 0.0)
	assert.LessOrEqual(t, stats.AverageNormalScore, float64(stats.HighestNormalScore))
	assert.Equal(t, 17, stats.HighestTrivialerScore)
}

func TestAggregateStats_AccuracyWithoutQuestions(t *testing.T) {
	records := []entity.Score{
		{NormalScore: 10, Score: 10},
		{NormalScore: 20, Score: 20, QuestionsCorrect: intPtr(3)},
	}

	stats := AggregateStats(records)

	assert.Equal(t, 0, stats.TotalQuestions)
	assert.Equal(t, 3, stats.CorrectAnswers)
	assert.Equal(t, 0.0, stats.Accuracy, "Без отвеченных вопросов точность равна 0")
}

func TestAggregateStats_AccuracyAcrossRecords(t *testing.T) {
	records := []entity.Score{
		{QuestionsAnswered: intPtr(10), QuestionsCorrect: intPtr(5)},
		{QuestionsAnswered: intPtr(5), QuestionsCorrect: intPtr(1)},
		{QuestionsAnswered: nil, QuestionsCorrect: nil},
	}

	stats := AggregateStats(records)

	assert.Equal(t, 15, stats.TotalQuestions)
	assert.Equal(t, 6, stats.CorrectAnswers)
	assert.InDelta(t, 40.0, stats.Accuracy, 1e-9)
}
