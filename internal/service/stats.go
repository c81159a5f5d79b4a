package service

import (
	"context"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/repository"
)

// StatsService handles statistics queries for the admin dashboard
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// GetStats returns overall statistics
func (s *StatsService) GetStats(ctx context.Context, principal domain.Principal) (*domain.Stats, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	stats, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	// Every status is reported, including the ones with no claims
	for _, status := range domain.ClaimStatuses {
		if _, ok := stats.ByStatus[status]; !ok {
			stats.ByStatus[status] = 0
		}
	}
	return stats, nil
}
