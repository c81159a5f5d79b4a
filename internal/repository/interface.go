package repository

import (
	"context"

	"github.com/aidar/claims-engine/internal/domain"
)

// ClaimRepository определяет методы для работы с данными claim'ов
type ClaimRepository interface {
	// Create сохраняет новый claim, присваивая ему ID и даты
	Create(ctx context.Context, claim *domain.Claim) error

	// GetByID получает claim по ID
	GetByID(ctx context.Context, claimID string) (*domain.Claim, error)

	// GetForUpdate получает claim с блокировкой строки до конца транзакции
	GetForUpdate(ctx context.Context, claimID string) (*domain.Claim, error)

	// Update записывает статус, поля исполнителя и updated_at одним изменением
	Update(ctx context.Context, claim *domain.Claim) error

	// ListByAssignee возвращает claim'ы, закрепленные за аккаунтом адъюстера
	ListByAssignee(ctx context.Context, identity string) ([]*domain.Claim, error)

	// ListAll возвращает все claim'ы, новые первыми
	ListAll(ctx context.Context) ([]*domain.Claim, error)
}

// NotificationRepository определяет методы для работы с уведомлениями о назначении
type NotificationRepository interface {
	// Create сохраняет новое уведомление
	Create(ctx context.Context, n *domain.Notification) error

	// GetByID получает уведомление по ID
	GetByID(ctx context.Context, notificationID string) (*domain.Notification, error)

	// UpdateStatus переводит уведомление из pending в итоговый статус
	UpdateStatus(ctx context.Context, n *domain.Notification) error

	// GetPendingByClaim возвращает ожидающее уведомление claim'а или nil
	GetPendingByClaim(ctx context.Context, claimID string) (*domain.Notification, error)

	// ListByClaim возвращает историю уведомлений claim'а
	ListByClaim(ctx context.Context, claimID string) ([]*domain.Notification, error)

	// ListPendingByRecipient возвращает ожидающие уведомления адресата
	ListPendingByRecipient(ctx context.Context, identity string) ([]*domain.Notification, error)
}

// TeamRepository определяет методы для работы с ростером команды
type TeamRepository interface {
	// AddMember добавляет участника в ростер администратора
	AddMember(ctx context.Context, member *domain.TeamMember) error

	// GetMember получает участника по ID
	GetMember(ctx context.Context, memberID string) (*domain.TeamMember, error)

	// ListMembers возвращает ростер администратора
	ListMembers(ctx context.Context, adminEmail string) ([]*domain.TeamMember, error)
}

// Transactor выполняет fn в одной транзакции; репозитории берут транзакцию из ctx
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StatsRepository определяет агрегирующие запросы для дашборда
type StatsRepository interface {
	// GetStats возвращает сводную статистику по claim'ам и адъюстерам
	GetStats(ctx context.Context) (*domain.Stats, error)
}
