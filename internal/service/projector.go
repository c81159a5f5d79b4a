package service

import (
	"context"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/repository"
)

// ProgressProjector builds the public tracking view of a claim.
// It only reads the claim and keeps no state between calls.
type ProgressProjector struct {
	claims repository.ClaimRepository
}

// NewProgressProjector creates a new ProgressProjector
func NewProgressProjector(claims repository.ClaimRepository) *ProgressProjector {
	return &ProgressProjector{claims: claims}
}

// Project returns the progress timeline of the claim
func (p *ProgressProjector) Project(ctx context.Context, claimID string) (*domain.Timeline, error) {
	claim, err := p.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return ProjectTimeline(claim), nil
}

// Track returns the claimant-facing view: read-only contact fields plus the timeline
func (p *ProgressProjector) Track(ctx context.Context, claimID string) (*domain.TrackingView, error) {
	claim, err := p.claims.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	return &domain.TrackingView{
		ClaimID:     claim.ID,
		Name:        claim.Name,
		Email:       claim.Email,
		Phone:       claim.Phone,
		Address:     claim.Address,
		Zipcode:     claim.Zipcode,
		Description: claim.Description,
		Priority:    claim.Priority,
		CreatedAt:   claim.CreatedAt,
		Timeline:    ProjectTimeline(claim),
	}, nil
}

// progressRank returns the index of the last reached step.
// new ranks as submitted; rejected ranks as submitted and is flagged separately.
func progressRank(status domain.ClaimStatus) int {
	switch status {
	case domain.ClaimAssigned:
		return 1
	case domain.ClaimInProgress:
		return 2
	case domain.ClaimResolved:
		return 3
	default:
		return 0
	}
}

// ProjectTimeline derives the timeline from the claim fields
func ProjectTimeline(claim *domain.Claim) *domain.Timeline {
	rank := progressRank(claim.Status)

	steps := make([]domain.TimelineStep, len(domain.ProgressSteps))
	for i, step := range domain.ProgressSteps {
		state := domain.StepPending
		if i <= rank {
			state = domain.StepComplete
		}
		steps[i] = domain.TimelineStep{Step: step, State: state}
	}

	return &domain.Timeline{
		ClaimID:       claim.ID,
		Status:        claim.Status,
		Steps:         steps,
		CurrentStep:   domain.ProgressSteps[rank],
		Percent:       (rank + 1) * 25,
		Rejected:      claim.Status == domain.ClaimRejected,
		AssignedTo:    claim.AssignedTo,
		AssignedUnder: claim.AssignedUnder,
		UpdatedAt:     claim.UpdatedAt,
	}
}
