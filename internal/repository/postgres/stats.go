package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/claims-engine/internal/domain"
)

// StatsRepository реализует repository.StatsRepository для PostgreSQL
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository создает новый экземпляр StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats возвращает сводную статистику
func (r *StatsRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{ByStatus: map[domain.ClaimStatus]int{}}

	// Get claim counts per status
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM claims GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.ClaimStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.TotalClaims += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE status = 'pending'`,
	).Scan(&stats.PendingNotifications); err != nil {
		return nil, err
	}

	// Get per-adjuster workload
	adjusterQuery := `
		SELECT
			assigned_under,
			MAX(assigned_to) as name,
			COUNT(CASE WHEN status IN ('assigned', 'in_progress') THEN 1 END) as active,
			COUNT(CASE WHEN status = 'resolved' THEN 1 END) as resolved
		FROM claims
		WHERE assigned_under IS NOT NULL
		GROUP BY assigned_under
		ORDER BY active DESC, assigned_under
	`

	adjRows, err := r.db.Query(ctx, adjusterQuery)
	if err != nil {
		return nil, err
	}
	defer adjRows.Close()

	stats.Adjusters = []domain.AdjusterStats{}
	for adjRows.Next() {
		var as domain.AdjusterStats
		if err := adjRows.Scan(&as.Identity, &as.Name, &as.Active, &as.Resolved); err != nil {
			return nil, err
		}
		stats.Adjusters = append(stats.Adjusters, as)
	}

	return stats, adjRows.Err()
}
