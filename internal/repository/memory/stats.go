package memory

import (
	"context"
	"sort"

	"github.com/aidar/claims-engine/internal/domain"
)

// Stats возвращает репозиторий статистики
func (s *Store) Stats() *StatsRepository { return &StatsRepository{s: s} }

// StatsRepository реализует repository.StatsRepository
type StatsRepository struct {
	s *Store
}

// GetStats возвращает сводную статистику
func (r *StatsRepository) GetStats(_ context.Context) (*domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &domain.Stats{ByStatus: map[domain.ClaimStatus]int{}}
	byAdjuster := map[string]*domain.AdjusterStats{}

	for _, c := range r.s.claims {
		stats.TotalClaims++
		stats.ByStatus[c.Status]++

		if c.AssignedUnder == nil {
			continue
		}
		as, ok := byAdjuster[*c.AssignedUnder]
		if !ok {
			as = &domain.AdjusterStats{Identity: *c.AssignedUnder, Name: *c.AssignedTo}
			byAdjuster[*c.AssignedUnder] = as
		}
		switch c.Status {
		case domain.ClaimAssigned, domain.ClaimInProgress:
			as.Active++
		case domain.ClaimResolved:
			as.Resolved++
		}
	}

	for _, n := range r.s.notifications {
		if n.IsPending() {
			stats.PendingNotifications++
		}
	}

	stats.Adjusters = make([]domain.AdjusterStats, 0, len(byAdjuster))
	for _, as := range byAdjuster {
		stats.Adjusters = append(stats.Adjusters, *as)
	}
	sort.Slice(stats.Adjusters, func(i, j int) bool {
		if stats.Adjusters[i].Active != stats.Adjusters[j].Active {
			return stats.Adjusters[i].Active > stats.Adjusters[j].Active
		}
		return stats.Adjusters[i].Identity < stats.Adjusters[j].Identity
	})

	return stats, nil
}
