package entity

import "time"

// Score представляет одну завершённую игру.
// Запись неизменяема после вставки. Поле Score дублирует NormalScore
// для клиентов, которые знают только старый формат.
type Score struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID *uint `gorm:"index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`

	// PlayerName снимок имени на момент записи; NULL только у старых строк
	PlayerName *string `gorm:"size:80;index" json:"player_name"`

	NormalScore    int `gorm:"not null;default:0" json:"normal_score"`
	TrivialerScore int `gorm:"not null;default:0" json:"trivialer_score"`
	Score          int `gorm:"not null;default:0" json:"score"`

	Category          *string   `gorm:"size:100" json:"category"`
	Difficulty        *int      `json:"difficulty"`
	QuestionsAnswered *int      `json:"questions_answered"`
	QuestionsCorrect  *int      `json:"questions_correct"`
	Date              time.Time `gorm:"not null;index" json:"date"`
}

// TableName определяет имя таблицы для GORM
func (Score) TableName() string {
	return "scores"
}
