package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aidar/claims-engine/internal/metrics"
)

// Dispatcher отправляет письма асинхронно, вне критической секции claim'а
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher создает Dispatcher; timeout ограничивает одну отправку
func NewDispatcher(sender Sender, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch запускает отправку и сразу возвращает управление.
// Ошибка доставки логируется как предупреждение.
func (d *Dispatcher) Dispatch(msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		err := d.sender.Send(ctx, msg)
		metrics.MailDispatch.WithLabelValues(metrics.Result(err)).Inc()
		if err != nil {
			d.logger.Warn("Mail dispatch failed, claim transition kept",
				"claim_id", msg.ClaimID,
				"to", msg.ClaimantEmail,
				"error", err,
			)
		}
	}()
}

// Wait ждет завершения всех запущенных отправок
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close ждет отправки не дольше чем до отмены ctx
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
