package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/claims-engine/internal/domain"
)

// TeamRepository реализует repository.TeamRepository для PostgreSQL
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// AddMember добавляет участника в ростер администратора
func (r *TeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	query := `
		INSERT INTO team_members (id, admin_email, name, email, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	_, err := conn(ctx, r.db).Exec(ctx, query,
		member.ID, member.AdminEmail, member.Name, member.Email, member.Role, member.Status,
	)
	if err != nil {
		// Check for unique constraint violation (member already in roster)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return domain.ErrConflict
		}
		return err
	}

	return nil
}

// GetMember получает участника по ID
func (r *TeamRepository) GetMember(ctx context.Context, memberID string) (*domain.TeamMember, error) {
	query := `
		SELECT id, admin_email, name, email, role, status
		FROM team_members
		WHERE id = $1
	`

	var m domain.TeamMember
	err := conn(ctx, r.db).QueryRow(ctx, query, memberID).Scan(
		&m.ID,
		&m.AdminEmail,
		&m.Name,
		&m.Email,
		&m.Role,
		&m.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

// ListMembers возвращает ростер администратора
func (r *TeamRepository) ListMembers(ctx context.Context, adminEmail string) ([]*domain.TeamMember, error) {
	query := `
		SELECT id, admin_email, name, email, role, status
		FROM team_members
		WHERE admin_email = $1
		ORDER BY name
	`

	rows, err := conn(ctx, r.db).Query(ctx, query, adminEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.TeamMember{}
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.ID, &m.AdminEmail, &m.Name, &m.Email, &m.Role, &m.Status); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}

	return members, rows.Err()
}
