package service

import (
	"strings"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// GuestPlayerName подставляется, если гость не указал имя
const GuestPlayerName = "Guest"

// ScoreSubmission - данные результата игры от клиента.
// Старые клиенты присылают только score, новые - normal_score и trivialer_score.
type ScoreSubmission struct {
	NormalScore       *int    `json:"normal_score" validate:"omitempty,gte=0"`
	TrivialerScore    *int    `json:"trivialer_score" validate:"omitempty,gte=0"`
	Score             *int    `json:"score" validate:"omitempty,gte=0"`
	Category          *string `json:"category" validate:"omitempty,max=100"`
	Difficulty        *int    `json:"difficulty" validate:"omitempty,gte=0"`
	QuestionsAnswered *int    `json:"questions_answered" validate:"omitempty,gte=0"`
	QuestionsCorrect  *int    `json:"questions_correct" validate:"omitempty,gte=0"`
}

// NormalizedScores - значения очков, готовые к записи
type NormalizedScores struct {
	Normal    int
	Trivialer int
	Legacy    int
}

// NormalizeSubmission приводит оба формата к одному.
// normal берётся из normal_score, иначе из score, иначе 0; legacy всегда равен normal.
func NormalizeSubmission(p ScoreSubmission) NormalizedScores {
	normal := 0
	switch {
	case p.NormalScore != nil:
		normal = *p.NormalScore
	case p.Score != nil:
		normal = *p.Score
	}

	trivialer := 0
	if p.TrivialerScore != nil {
		trivialer = *p.TrivialerScore
	}

	return NormalizedScores{
		Normal:    normal,
		Trivialer: trivialer,
		Legacy:    normal,
	}
}

// NormalValue возвращает normal_score, а для записей без него - legacy score
func NormalValue(s entity.Score) int {
	if s.NormalScore != 0 {
		return s.NormalScore
	}
	return s.Score
}

// TrivialerValue возвращает trivialer_score, а для записей без него - legacy score
func TrivialerValue(s entity.Score) int {
	if s.TrivialerScore != 0 {
		return s.TrivialerScore
	}
	return s.Score
}

// DisplayName: player_name, иначе имя связанного пользователя, иначе nil
func DisplayName(s entity.Score) *string {
	if s.PlayerName != nil && *s.PlayerName != "" {
		name := *s.PlayerName
		return &name
	}
	if s.User != nil && s.User.Username != "" {
		name := s.User.Username
		return &name
	}
	return nil
}

// guestDisplayName выбирает первое непустое имя из кандидатов.
// Пробелы учитываются только при проверке на пустоту, имя сохраняется как есть.
func guestDisplayName(candidates ...*string) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if strings.TrimSpace(*c) != "" {
			return *c
		}
	}
	return GuestPlayerName
}
