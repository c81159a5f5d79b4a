package service

import (
	"context"
	"time"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/lock"
	"github.com/aidar/claims-engine/internal/mail"
	"github.com/aidar/claims-engine/internal/metrics"
	"github.com/aidar/claims-engine/internal/repository"
)

// MailDispatcher отправляет письма вне критической секции claim'а
type MailDispatcher interface {
	Dispatch(msg mail.Message)
}

// Deps содержит общие зависимости сервисов жизненного цикла claim'а
type Deps struct {
	Claims        repository.ClaimRepository
	Notifications repository.NotificationRepository
	Team          repository.TeamRepository
	Tx            repository.Transactor
	Locker        lock.Locker
	Now           func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UTC()
}

// withClaim выполняет fn под блокировкой claim'а и в одной транзакции.
// Блокировка освобождается до возврата, поэтому побочные эффекты после withClaim
// выполняются вне критической секции.
func (d Deps) withClaim(ctx context.Context, claimID string, fn func(ctx context.Context) error) error {
	unlock, err := d.Locker.Lock(ctx, claimID)
	if err != nil {
		return err
	}
	defer unlock()

	return d.Tx.WithinTx(ctx, fn)
}

// supersedePending отклоняет ожидающее уведомление claim'а, если оно есть
func (d Deps) supersedePending(ctx context.Context, claimID string, now time.Time) (*domain.Notification, error) {
	pending, err := d.Notifications.GetPendingByClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, nil
	}

	pending.Status = domain.NotificationDeclined
	pending.DecidedAt = &now
	if err := d.Notifications.UpdateStatus(ctx, pending); err != nil {
		return nil, err
	}

	metrics.SupersededNotifications.Inc()
	return pending, nil
}

// transition переводит claim и сохраняет его
func (d Deps) transition(ctx context.Context, claim *domain.Claim, to domain.ClaimStatus, assignee *domain.Assignee, now time.Time) error {
	from := claim.Status
	if err := claim.Transition(to, assignee, now); err != nil {
		return err
	}
	if err := d.Claims.Update(ctx, claim); err != nil {
		return err
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	return nil
}
