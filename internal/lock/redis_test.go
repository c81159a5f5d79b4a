package lock

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/claims-engine/internal/domain"
)

func newTestRedis(t *testing.T, opts RedisOptions) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRedis(client, opts, logger), mr
}

func TestRedis_LockUnlock(t *testing.T) {
	l, mr := newTestRedis(t, RedisOptions{TTL: time.Second, Wait: 50 * time.Millisecond, RetryDelay: 5 * time.Millisecond})
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "claim-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"claim-1"))

	_, err = l.Lock(ctx, "claim-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	unlock()
	assert.False(t, mr.Exists(keyPrefix+"claim-1"))

	unlock, err = l.Lock(ctx, "claim-1")
	require.NoError(t, err)
	unlock()
}

func TestRedis_WaitsForRelease(t *testing.T) {
	l, _ := newTestRedis(t, RedisOptions{TTL: time.Second, Wait: time.Second, RetryDelay: 5 * time.Millisecond})
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "claim-1")
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		unlock()
	}()

	second, err := l.Lock(ctx, "claim-1")
	require.NoError(t, err)
	second()
}

func TestRedis_UnlockDoesNotReleaseForeignOwner(t *testing.T) {
	l, mr := newTestRedis(t, RedisOptions{TTL: time.Second, Wait: 50 * time.Millisecond, RetryDelay: 5 * time.Millisecond})
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "claim-1")
	require.NoError(t, err)

	// Ключ истек и был захвачен другим инстансом
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set(keyPrefix+"claim-1", "other-owner"))

	unlock()

	value, err := mr.Get(keyPrefix + "claim-1")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", value)
}

func TestRedis_DefaultOptions(t *testing.T) {
	l, _ := newTestRedis(t, RedisOptions{})
	assert.Equal(t, 10*time.Second, l.opts.TTL)
	assert.Equal(t, 25*time.Millisecond, l.opts.RetryDelay)
}
