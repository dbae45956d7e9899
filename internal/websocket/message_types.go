package websocket

// Типы сообщений live-ленты
const (
	// SCORE_SUBMITTED сообщает о новом сохранённом результате
	SCORE_SUBMITTED = "SCORE_SUBMITTED"
)

// Message - конверт всех исходящих сообщений
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ScoreEvent - данные события SCORE_SUBMITTED
type ScoreEvent struct {
	ID             uint    `json:"id"`
	Username       *string `json:"username"`
	NormalScore    int     `json:"normal_score"`
	TrivialerScore int     `json:"trivialer_score"`
	Score          int     `json:"score"`
	Category       *string `json:"category,omitempty"`
	Date           string  `json:"date"`
}
