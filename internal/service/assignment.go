package service

import (
	"context"
	"fmt"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/metrics"
)

// AssignmentService creates assignment offers for claims
type AssignmentService struct {
	Deps
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(deps Deps) *AssignmentService {
	return &AssignmentService{Deps: deps}
}

// Assign proposes a roster member for the claim.
// A pending offer that already exists for the claim is declined first,
// so the claim never has more than one outstanding offer.
func (s *AssignmentService) Assign(ctx context.Context, principal domain.Principal, claimID, memberID string) (*domain.Notification, error) {
	n, err := s.assign(ctx, principal, claimID, memberID)
	metrics.Assignments.WithLabelValues(metrics.Result(err)).Inc()
	return n, err
}

func (s *AssignmentService) assign(ctx context.Context, principal domain.Principal, claimID, memberID string) (*domain.Notification, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	// Resolve member through the roster and check it belongs to the caller
	member, err := s.Team.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.AdminEmail != principal.Identity {
		return nil, domain.ErrNotInRoster
	}
	if !member.IsActive() {
		return nil, domain.ErrMemberInactive
	}

	var created *domain.Notification
	err = s.withClaim(ctx, claimID, func(ctx context.Context) error {
		claim, err := s.Claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		if claim.Status.IsTerminal() {
			return fmt.Errorf("%w: claim %s is %s", domain.ErrInvalidState, claimID, claim.Status)
		}

		now := s.now()
		if _, err := s.supersedePending(ctx, claimID, now); err != nil {
			return err
		}

		n := &domain.Notification{
			ClaimID:       claimID,
			MemberID:      member.ID,
			AssigneeName:  member.Name,
			AssigneeEmail: member.Email,
			AssignedBy:    principal.Identity,
			Status:        domain.NotificationPending,
		}
		if err := s.Notifications.Create(ctx, n); err != nil {
			return err
		}

		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// History returns every offer made for the claim, oldest first
func (s *AssignmentService) History(ctx context.Context, claimID string) ([]*domain.Notification, error) {
	if _, err := s.Claims.GetByID(ctx, claimID); err != nil {
		return nil, err
	}
	return s.Notifications.ListByClaim(ctx, claimID)
}
