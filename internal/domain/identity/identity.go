// Package identity описывает, от чьего имени выполняется запрос к результатам.
//
// Чтение: Authenticated, GuestFilter или Unfiltered (реализуют Resolution).
// Запись: Authenticated или Guest (реализуют Author).
// Оба интерфейса закрыты неэкспортируемым методом, поэтому type switch
// по ним исчерпывающий.
package identity

import "github.com/yourusername/trivia-backend/internal/domain/entity"

// Resolution - результат определения личности для чтения
type Resolution interface {
	resolution()
}

// Author - автор новой записи результата
type Author interface {
	author()
}

// Authenticated - запрос с валидным токеном существующего пользователя
type Authenticated struct {
	User *entity.User
}

// GuestFilter - анонимный запрос с фильтром по никнейму
type GuestFilter struct {
	Nickname string
}

// Unfiltered - анонимный запрос без фильтра (глобальный список)
type Unfiltered struct{}

// Guest - анонимный автор результата
type Guest struct {
	DisplayName string
}

func (Authenticated) resolution() {}
func (GuestFilter) resolution()   {}
func (Unfiltered) resolution()    {}

func (Authenticated) author() {}
func (Guest) author()         {}

// Kind возвращает короткое имя варианта для логов и метрик
func Kind(v interface{}) string {
	switch v.(type) {
	case Authenticated:
		return "user"
	case GuestFilter:
		return "nickname"
	case Unfiltered:
		return "global"
	case Guest:
		return "guest"
	default:
		return "unknown"
	}
}
