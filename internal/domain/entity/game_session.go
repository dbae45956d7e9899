package entity

import "time"

// GameSession хранит состояние незавершённой игры.
// Живёт в Redis с TTL, адресуется по ID и принадлежит одному пользователю.
type GameSession struct {
	ID             string     `json:"id"`
	UserID         uint       `json:"user_id"`
	QuestionIDs    []uint     `json:"question_ids"`
	CurrentIndex   int        `json:"current_index"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	Category       string     `json:"category,omitempty"`
	Difficulty     *int       `json:"difficulty,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	ScoreID        *uint      `json:"score_id,omitempty"`
}

// PointsPerCorrectAnswer начисляется за каждый правильный ответ
const PointsPerCorrectAnswer = 1

// IsFinished возвращает true, если на все вопросы уже дан ответ
func (g *GameSession) IsFinished() bool {
	return g.FinishedAt != nil || g.CurrentIndex >= len(g.QuestionIDs)
}

// CurrentQuestionID возвращает ID текущего вопроса; false если игра окончена
func (g *GameSession) CurrentQuestionID() (uint, bool) {
	if g.IsFinished() {
		return 0, false
	}
	return g.QuestionIDs[g.CurrentIndex], true
}

// RecordAnswer продвигает игру на один вопрос вперёд
func (g *GameSession) RecordAnswer(correct bool) {
	if g.IsFinished() {
		return
	}
	if correct {
		g.Score += PointsPerCorrectAnswer
		g.CorrectAnswers++
	}
	g.CurrentIndex++
}

// Answered возвращает количество отвеченных вопросов
func (g *GameSession) Answered() int {
	if g.CurrentIndex > len(g.QuestionIDs) {
		return len(g.QuestionIDs)
	}
	return g.CurrentIndex
}
