package dto

import (
	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/service"
)

// DateFormat - формат дат в ответах API (без зоны, время в UTC)
const DateFormat = "2006-01-02T15:04:05"

// LegacyScoreRequest - гостевая запись результата.
// Имя берётся из player_name, затем из username.
type LegacyScoreRequest struct {
	service.ScoreSubmission
	PlayerName *string `json:"player_name"`
	Username   *string `json:"username"`
}

// ScoreResponse - результат игры в ответах API
type ScoreResponse struct {
	ID                uint    `json:"id"`
	UserID            *uint   `json:"user_id"`
	PlayerName        *string `json:"player_name"`
	Username          *string `json:"username"`
	NormalScore       int     `json:"normal_score"`
	TrivialerScore    int     `json:"trivialer_score"`
	Score             int     `json:"score"`
	Category          *string `json:"category"`
	Difficulty        *int    `json:"difficulty"`
	QuestionsAnswered *int    `json:"questions_answered"`
	QuestionsCorrect  *int    `json:"questions_correct"`
	Date              string  `json:"date"`
}

// ScoreListResponse - список результатов
type ScoreListResponse struct {
	Scores []ScoreResponse `json:"scores"`
}

// LeaderboardResponse - лучшие результаты и общее число записей
type LeaderboardResponse struct {
	Scores []ScoreResponse `json:"scores"`
	Total  int64           `json:"total"`
}

// SubmitScoreResponse - ответ на запись результата
type SubmitScoreResponse struct {
	Message string        `json:"message"`
	Score   ScoreResponse `json:"score"`
}

// NewScoreResponse строит ответ; username вычисляется при чтении
func NewScoreResponse(s *entity.Score) ScoreResponse {
	return ScoreResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		PlayerName:        s.PlayerName,
		Username:          service.DisplayName(*s),
		NormalScore:       s.NormalScore,
		TrivialerScore:    s.TrivialerScore,
		Score:             s.Score,
		Category:          s.Category,
		Difficulty:        s.Difficulty,
		QuestionsAnswered: s.QuestionsAnswered,
		QuestionsCorrect:  s.QuestionsCorrect,
		Date:              s.Date.UTC().Format(DateFormat),
	}
}

// NewScoreListResponse строит список, пустой список сериализуется как []
func NewScoreListResponse(scores []entity.Score) ScoreListResponse {
	out := make([]ScoreResponse, 0, len(scores))
	for i := range scores {
		out = append(out, NewScoreResponse(&scores[i]))
	}
	return ScoreListResponse{Scores: out}
}
