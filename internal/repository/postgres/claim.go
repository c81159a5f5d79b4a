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

const claimColumns = `id, status, priority, assigned_to, assigned_under,
	name, email, phone, address, zipcode, description, created_at, updated_at`

// ClaimRepository реализует repository.ClaimRepository для PostgreSQL
type ClaimRepository struct {
	db *pgxpool.Pool
}

// NewClaimRepository создает новый экземпляр ClaimRepository
func NewClaimRepository(db *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create сохраняет новый claim
func (r *ClaimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	query := `
		INSERT INTO claims (id, status, priority, name, email, phone, address, zipcode, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	claim.ID = uuid.NewString()
	now := time.Now().UTC()
	_, err := conn(ctx, r.db).Exec(ctx, query,
		claim.ID, claim.Status, claim.Priority,
		claim.Name, claim.Email, claim.Phone, claim.Address, claim.Zipcode, claim.Description,
		now,
	)
	if err != nil {
		return mapError(err)
	}

	claim.CreatedAt = now
	claim.UpdatedAt = now
	return nil
}

// GetByID получает claim по ID
func (r *ClaimRepository) GetByID(ctx context.Context, claimID string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	return r.getOne(ctx, query, claimID)
}

// GetForUpdate получает claim и блокирует строку до конца транзакции
func (r *ClaimRepository) GetForUpdate(ctx context.Context, claimID string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, claimID)
}

func (r *ClaimRepository) getOne(ctx context.Context, query, claimID string) (*domain.Claim, error) {
	claim, err := scanClaim(conn(ctx, r.db).QueryRow(ctx, query, claimID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, mapError(err)
	}
	return claim, nil
}

// Update записывает статус и поля исполнителя одним UPDATE
func (r *ClaimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	query := `
		UPDATE claims
		SET status = $1, assigned_to = $2, assigned_under = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		claim.Status, claim.AssignedTo, claim.AssignedUnder, claim.UpdatedAt, claim.ID,
	)
	if err != nil {
		return mapError(err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClaimNotFound
	}

	return nil
}

// ListByAssignee возвращает claim'ы адъюстера
func (r *ClaimRepository) ListByAssignee(ctx context.Context, identity string) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE assigned_under = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, identity)
}

// ListAll возвращает все claim'ы
func (r *ClaimRepository) ListAll(ctx context.Context) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *ClaimRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Claim, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := []*domain.Claim{}
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

func scanClaim(row pgx.Row) (*domain.Claim, error) {
	var c domain.Claim
	err := row.Scan(
		&c.ID,
		&c.Status,
		&c.Priority,
		&c.AssignedTo,
		&c.AssignedUnder,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Zipcode,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
