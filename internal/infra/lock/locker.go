package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired возвращается, когда расписание терапевта уже меняет другой запрос
var ErrLockNotAcquired = errors.New("lock: therapist lock not acquired")

// RedisLocker распределённая блокировка расписания терапевта.
// Снимает нагрузку с БД при конкурентных записях на одно время;
// корректность обеспечивают транзакция и уникальный индекс.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewRedisLocker создает блокировку с ключом на терапевта
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// WithTherapistLock выполняет fn, удерживая блокировку терапевта не дольше ttl
func (l *RedisLocker) WithTherapistLock(ctx context.Context, therapistID int64, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:therapist:%d", therapistID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire therapist lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		// ctx вызова мог истечь, снимаем блокировку отдельным контекстом
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		// результат fn уже зафиксирован, ключ истечёт сам через ttl
		if err := l.release(releaseCtx, key, token); err != nil {
			l.logger.Error("RedisLocker: therapist id=%d stays locked until ttl %s expires: %v", therapistID, l.ttl, err)
		}
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *RedisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release therapist lock: %w", err)
	}
	return nil
}

// NoopLocker используется, когда Redis выключен в конфигурации
type NoopLocker struct{}

// WithTherapistLock просто вызывает fn
func (NoopLocker) WithTherapistLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
