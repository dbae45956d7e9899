package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	// SetJSONKeepTTL перезаписывает значение, сохраняя оставшийся TTL ключа
	SetJSONKeepTTL(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	// SetNX устанавливает значение, только если ключа нет; true если установлено
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
}
