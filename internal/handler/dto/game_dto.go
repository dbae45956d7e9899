package dto

import "github.com/yourusername/trivia-backend/internal/service"

// StartGameRequest - параметры новой игры
type StartGameRequest struct {
	Category   string `json:"category" binding:"omitempty,max=100"`
	Difficulty *int   `json:"difficulty" binding:"omitempty,min=1,max=3"`
	Amount     int    `json:"amount" binding:"omitempty,min=1"`
}

// AnswerRequest - ответ на текущий вопрос
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// GameStateResponse - состояние игры
type GameStateResponse struct {
	ID             string                `json:"id"`
	TotalQuestions int                   `json:"total_questions"`
	Answered       int                   `json:"answered"`
	Score          int                   `json:"score"`
	CorrectAnswers int                   `json:"correct_answers"`
	Category       string                `json:"category,omitempty"`
	Difficulty     *int                  `json:"difficulty,omitempty"`
	Finished       bool                  `json:"finished"`
	StartedAt      string                `json:"started_at"`
	FinishedAt     *string               `json:"finished_at,omitempty"`
	ScoreID        *uint                 `json:"score_id,omitempty"`
	Question       *GameQuestionResponse `json:"question"`
}

// AnswerResponse - результат ответа
type AnswerResponse struct {
	Correct       bool              `json:"correct"`
	CorrectAnswer string            `json:"correct_answer"`
	Finished      bool              `json:"finished"`
	State         GameStateResponse `json:"state"`
}

func NewGameStateResponse(state *service.GameState) GameStateResponse {
	s := state.Session
	resp := GameStateResponse{
		ID:             s.ID,
		TotalQuestions: len(s.QuestionIDs),
		Answered:       s.Answered(),
		Score:          s.Score,
		CorrectAnswers: s.CorrectAnswers,
		Category:       s.Category,
		Difficulty:     s.Difficulty,
		Finished:       s.IsFinished(),
		StartedAt:      s.StartedAt.UTC().Format(DateFormat),
		ScoreID:        s.ScoreID,
		Question:       NewGameQuestionResponse(s.ID, state.Question),
	}
	if s.FinishedAt != nil {
		finished := s.FinishedAt.UTC().Format(DateFormat)
		resp.FinishedAt = &finished
	}
	return resp
}

func NewAnswerResponse(result *service.AnswerResult) AnswerResponse {
	return AnswerResponse{
		Correct:       result.Correct,
		CorrectAnswer: result.CorrectAnswer,
		Finished:      result.Finished,
		State:         NewGameStateResponse(result.State),
	}
}
