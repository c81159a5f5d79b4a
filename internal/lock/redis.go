package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/metrics"
)

const keyPrefix = "claims:lock:"

// releaseScript удаляет ключ только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions содержит настройки распределенной блокировки
type RedisOptions struct {
	TTL        time.Duration // Время жизни ключа, страхует от упавшего владельца
	Wait       time.Duration // Максимальное ожидание захвата
	RetryDelay time.Duration // Пауза между попытками SET NX
}

// Redis реализует Locker между несколькими инстансами сервиса
type Redis struct {
	client *redis.Client
	opts   RedisOptions
	logger *slog.Logger
}

// NewRedis создает Redis locker
func NewRedis(client *redis.Client, opts RedisOptions, logger *slog.Logger) *Redis {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 25 * time.Millisecond
	}
	return &Redis{client: client, opts: opts, logger: logger}
}

// Lock захватывает блокировку key через SET NX PX
func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	start := time.Now()
	token := uuid.NewString()
	redisKey := keyPrefix + key

	if r.opts.Wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Wait)
		defer cancel()
	}

	ticker := time.NewTicker(r.opts.RetryDelay)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.opts.TTL).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			metrics.LockWait.WithLabelValues("redis").Observe(time.Since(start).Seconds())
			return r.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: lock %s: %v", domain.ErrConflict, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *Redis) unlockFunc(redisKey, token string) Unlock {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil {
			r.logger.Warn("Failed to release claim lock", "key", redisKey, "error", err)
		}
	}
}
