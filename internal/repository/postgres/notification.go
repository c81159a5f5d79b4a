package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/claims-engine/internal/domain"
)

const notificationColumns = `id, claim_id, member_id, assignee_name, assignee_email,
	assigned_by, status, created_at, decided_at`

// NotificationRepository реализует repository.NotificationRepository для PostgreSQL
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository создает новый экземпляр NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create сохраняет новое уведомление.
// Частичный уникальный индекс не пропускает второе pending уведомление на claim.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, claim_id, member_id, assignee_name, assignee_email, assigned_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	n.ID = uuid.NewString()
	createdAt := time.Now().UTC()
	_, err := conn(ctx, r.db).Exec(ctx, query,
		n.ID, n.ClaimID, n.MemberID, n.AssigneeName, n.AssigneeEmail, n.AssignedBy, n.Status, createdAt,
	)
	if err != nil {
		return mapError(err)
	}

	n.CreatedAt = createdAt
	return nil
}

// GetByID получает уведомление по ID
func (r *NotificationRepository) GetByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(conn(ctx, r.db).QueryRow(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

// UpdateStatus переводит уведомление из pending в итоговый статус.
// Условие status = 'pending' делает решение однократным даже без внешней блокировки.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, n *domain.Notification) error {
	query := `
		UPDATE notifications
		SET status = $1, decided_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, n.Status, n.DecidedAt, n.ID)
	if err != nil {
		return mapError(err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrAlreadyDecided
	}

	return nil
}

// GetPendingByClaim возвращает ожидающее уведомление claim'а или nil
func (r *NotificationRepository) GetPendingByClaim(ctx context.Context, claimID string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE claim_id = $1 AND status = 'pending'`

	n, err := scanNotification(conn(ctx, r.db).QueryRow(ctx, query, claimID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return n, nil
}

// ListByClaim возвращает историю уведомлений claim'а
func (r *NotificationRepository) ListByClaim(ctx context.Context, claimID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE claim_id = $1 ORDER BY created_at`
	return r.list(ctx, query, claimID)
}

// ListPendingByRecipient возвращает ожидающие уведомления адресата
func (r *NotificationRepository) ListPendingByRecipient(ctx context.Context, identity string) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE assignee_email = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, identity)
}

func (r *NotificationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []*domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(
		&n.ID,
		&n.ClaimID,
		&n.MemberID,
		&n.AssigneeName,
		&n.AssigneeEmail,
		&n.AssignedBy,
		&n.Status,
		&n.CreatedAt,
		&n.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
