// Package lock реализует критическую секцию на уровне одного claim'а.
// Блокировки независимы по ключу: операции над разными claim'ами не ждут друг друга.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/metrics"
)

// Unlock освобождает захваченную блокировку
type Unlock func()

// Locker захватывает эксклюзивную блокировку по ключу
type Locker interface {
	// Lock ждет блокировку не дольше настроенного таймаута, иначе возвращает domain.ErrConflict
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Local реализует Locker внутри одного процесса
type Local struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

type entry struct {
	sem  chan struct{}
	refs int
}

// NewLocal создает Local с таймаутом ожидания wait (0 - ждать до отмены ctx)
func NewLocal(wait time.Duration) *Local {
	return &Local{
		entries: make(map[string]*entry),
		wait:    wait,
	}
}

// Lock захватывает блокировку key
func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	start := time.Now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case e.sem <- struct{}{}:
		metrics.LockWait.WithLabelValues("local").Observe(time.Since(start).Seconds())
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				l.release(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, e)
		return nil, fmt.Errorf("%w: lock %s: %v", domain.ErrConflict, key, ctx.Err())
	}
}

// release удаляет запись, когда ее никто не ждет
func (l *Local) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len возвращает число ключей с захваченной или ожидаемой блокировкой
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
