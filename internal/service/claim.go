package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aidar/claims-engine/internal/domain"
)

// ClaimService handles claim intake, listing and the adjuster/admin status endpoints
type ClaimService struct {
	Deps
}

// NewClaimService creates a new ClaimService
func NewClaimService(deps Deps) *ClaimService {
	return &ClaimService{Deps: deps}
}

// Create registers a claim submitted through the intake form
func (s *ClaimService) Create(ctx context.Context, intake domain.ClaimIntake) (*domain.Claim, error) {
	if err := validateIntake(&intake); err != nil {
		return nil, err
	}

	claim := &domain.Claim{
		Status:      domain.ClaimSubmitted,
		Priority:    intake.Priority,
		Name:        intake.Name,
		Email:       intake.Email,
		Phone:       intake.Phone,
		Address:     intake.Address,
		Zipcode:     intake.Zipcode,
		Description: intake.Description,
	}
	if err := s.Claims.Create(ctx, claim); err != nil {
		return nil, err
	}

	return claim, nil
}

func validateIntake(intake *domain.ClaimIntake) error {
	intake.Name = strings.TrimSpace(intake.Name)
	intake.Email = strings.TrimSpace(intake.Email)
	intake.Description = strings.TrimSpace(intake.Description)

	if intake.Name == "" || intake.Email == "" || intake.Description == "" {
		return fmt.Errorf("%w: name, email and description are required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(intake.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", domain.ErrValidation, intake.Email)
	}

	if intake.Priority == "" {
		intake.Priority = domain.PriorityMedium
	}
	if !intake.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, intake.Priority)
	}
	return nil
}

// GetByID retrieves a claim by ID
func (s *ClaimService) GetByID(ctx context.Context, claimID string) (*domain.Claim, error) {
	return s.Claims.GetByID(ctx, claimID)
}

// List returns every claim for admins and the caller's own claims for adjusters
func (s *ClaimService) List(ctx context.Context, principal domain.Principal) ([]*domain.Claim, error) {
	if principal.IsAdmin() {
		return s.Claims.ListAll(ctx)
	}
	return s.Claims.ListByAssignee(ctx, principal.Identity)
}

// UpdateStatus moves an assigned claim forward (in_progress, resolved).
// Only the adjuster the claim is assigned to may do this.
func (s *ClaimService) UpdateStatus(ctx context.Context, principal domain.Principal, claimID string, status domain.ClaimStatus) (*domain.Claim, error) {
	if status != domain.ClaimInProgress && status != domain.ClaimResolved {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	var claim *domain.Claim
	err := s.withClaim(ctx, claimID, func(ctx context.Context) error {
		c, err := s.Claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		if !c.IsAssignedTo(principal.Identity) {
			return domain.ErrForbidden
		}

		if !c.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, c.Status, status)
		}

		// A resolved claim keeps no outstanding offers
		now := s.now()
		if status.IsTerminal() {
			if _, err := s.supersedePending(ctx, claimID, now); err != nil {
				return err
			}
		}

		if err := s.transition(ctx, c, status, nil, now); err != nil {
			return err
		}

		claim = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}

// Reject is the admin override for any non-terminal claim.
// A pending offer is declined together with the rejection.
func (s *ClaimService) Reject(ctx context.Context, principal domain.Principal, claimID string) (*domain.Claim, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var claim *domain.Claim
	err := s.withClaim(ctx, claimID, func(ctx context.Context) error {
		c, err := s.Claims.GetForUpdate(ctx, claimID)
		if err != nil {
			return err
		}
		if c.Status.IsTerminal() {
			return fmt.Errorf("%w: claim %s is %s", domain.ErrInvalidState, claimID, c.Status)
		}

		now := s.now()
		if _, err := s.supersedePending(ctx, claimID, now); err != nil {
			return err
		}
		if err := s.transition(ctx, c, domain.ClaimRejected, nil, now); err != nil {
			return err
		}

		claim = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}
