package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос из банка вопросов
type Question struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Text             string      `gorm:"size:500;not null" json:"text"`
	Category         string      `gorm:"size:100;not null;index" json:"category"`
	Difficulty       int         `gorm:"not null;index" json:"difficulty"`
	CorrectAnswer    string      `gorm:"size:200;not null" json:"correct_answer"`
	IncorrectAnswers StringArray `gorm:"type:jsonb;not null" json:"incorrect_answers"`
	CreatedAt        time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect сравнивает ответ с правильным, игнорируя пробелы по краям
func (q *Question) IsCorrect(answer string) bool {
	return strings.TrimSpace(answer) == strings.TrimSpace(q.CorrectAnswer)
}

// Options возвращает все варианты ответа: правильный и неправильные
func (q *Question) Options() []string {
	options := make([]string, 0, len(q.IncorrectAnswers)+1)
	options = append(options, q.CorrectAnswer)
	options = append(options, q.IncorrectAnswers...)
	return options
}
