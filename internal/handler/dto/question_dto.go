package dto

import (
	"github.com/yourusername/trivia-backend/internal/domain/entity"
	"github.com/yourusername/trivia-backend/internal/handler/helper"
)

// QuestionResponse - вопрос в формате банка вопросов (с ответами)
type QuestionResponse struct {
	ID               uint     `json:"id"`
	Text             string   `json:"text"`
	Category         string   `json:"category"`
	Difficulty       int      `json:"difficulty"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// QuestionListResponse - список вопросов
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// GameQuestionResponse - вопрос внутри игры, без правильного ответа
type GameQuestionResponse struct {
	ID         uint                    `json:"id"`
	Text       string                  `json:"text"`
	Category   string                  `json:"category"`
	Difficulty int                     `json:"difficulty"`
	Options    []helper.QuestionOption `json:"options"`
}

func NewQuestionListResponse(questions []entity.Question) QuestionListResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		incorrect := []string(q.IncorrectAnswers)
		if incorrect == nil {
			incorrect = []string{}
		}
		out = append(out, QuestionResponse{
			ID:               q.ID,
			Text:             q.Text,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswers: incorrect,
		})
	}
	return QuestionListResponse{Questions: out}
}

// NewGameQuestionResponse перемешивает варианты детерминированно для пары игра+вопрос
func NewGameQuestionResponse(gameID string, q *entity.Question) *GameQuestionResponse {
	if q == nil {
		return nil
	}
	return &GameQuestionResponse{
		ID:         q.ID,
		Text:       q.Text,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Options:    helper.ShuffledOptions(gameID, q),
	}
}
