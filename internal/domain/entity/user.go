package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User представляет игрока с аккаунтом.
// Пользователи, зарегистрированные только по никнейму, не имеют email и пароля.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;not null" json:"username"`
	Email        *string   `gorm:"size:120;uniqueIndex" json:"email"`
	PasswordHash *string   `gorm:"column:password_hash;size:128" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// SetPassword хеширует пароль и сохраняет хеш в пользователе
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[User.SetPassword] Ошибка при хешировании пароля для username=%s: %v", u.Username, err)
		return err
	}
	hash := string(hashed)
	u.PasswordHash = &hash
	return nil
}

// CheckPassword проверяет пароль. Для пользователей без пароля всегда false.
func (u *User) CheckPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) == nil
}

// HasPassword сообщает, может ли пользователь входить по паролю
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && strings.TrimSpace(*u.PasswordHash) != ""
}

// IsNicknameOnly возвращает true для аккаунтов, созданных через регистрацию никнейма
func (u *User) IsNicknameOnly() bool {
	return u.Email == nil && !u.HasPassword()
}
