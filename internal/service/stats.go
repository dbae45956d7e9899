package service

import "github.com/yourusername/trivia-backend/internal/domain/entity"

// Stats - агрегированная статистика по набору результатов
type Stats struct {
	TotalGames            int     `json:"total_games"`
	AverageNormalScore    float64 `json:"average_normal_score"`
	AverageTrivialerScore float64 `json:"average_trivialer_score"`
	HighestNormalScore    int     `json:"highest_normal_score"`
	HighestTrivialerScore int     `json:"highest_trivialer_score"`
	AverageScore          float64 `json:"average_score"`
	HighestScore          int     `json:"highest_score"`
	TotalQuestions        int     `json:"total_questions"`
	CorrectAnswers        int     `json:"correct_answers"`
	Accuracy              float64 `json:"accuracy"`
}

// AggregateStats считает статистику. Для пустого набора все поля нулевые.
func AggregateStats(records []entity.Score) Stats {
	if len(records) == 0 {
		return Stats{}
	}

	var (
		sumNormal, sumTrivialer int
		maxNormal, maxTrivialer int
		totalQuestions, correct int
	)

	for i, r := range records {
		normal := NormalValue(r)
		trivialer := TrivialerValue(r)

		sumNormal += normal
		sumTrivialer += trivialer
		if i == 0 || normal > maxNormal {
			maxNormal = normal
		}
		if i == 0 || trivialer > maxTrivialer {
			maxTrivialer = trivialer
		}

		if r.QuestionsAnswered != nil {
			totalQuestions += *r.QuestionsAnswered
		}
		if r.QuestionsCorrect != nil {
			correct += *r.QuestionsCorrect
		}
	}

	n := float64(len(records))
	avgNormal := float64(sumNormal) / n

	accuracy := 0.0
	if totalQuestions > 0 {
		accuracy = float64(correct) / float64(totalQuestions) * 100
	}

	return Stats{
		TotalGames:            len(records),
		AverageNormalScore:    avgNormal,
		AverageTrivialerScore: float64(sumTrivialer) / n,
		HighestNormalScore:    maxNormal,
		HighestTrivialerScore: maxTrivialer,
		AverageScore:          avgNormal,
		HighestScore:          maxNormal,
		TotalQuestions:        totalQuestions,
		CorrectAnswers:        correct,
		Accuracy:              accuracy,
	}
}
