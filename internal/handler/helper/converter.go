package helper

import (
	"hash/fnv"
	"math/rand"

	"github.com/yourusername/trivia-backend/internal/domain/entity"
)

// QuestionOption представляет вариант ответа для клиента
type QuestionOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ShuffledOptions перемешивает варианты ответа.
// Порядок зависит только от seed и ID вопроса, поэтому повторный запрос состояния игры
// возвращает те же варианты в том же порядке.
func ShuffledOptions(seed string, q *entity.Question) []QuestionOption {
	options := q.Options()

	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte{byte(q.ID), byte(q.ID >> 8), byte(q.ID >> 16), byte(q.ID >> 24)})
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		converted[i] = QuestionOption{ID: i, Text: opt}
	}
	return converted
}
