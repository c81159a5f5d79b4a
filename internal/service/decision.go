package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/mail"
	"github.com/aidar/claims-engine/internal/metrics"
)

// DecisionService records adjuster responses to assignment offers
type DecisionService struct {
	Deps
	mailer MailDispatcher
	logger *slog.Logger
}

// NewDecisionService creates a new DecisionService
func NewDecisionService(deps Deps, mailer MailDispatcher, logger *slog.Logger) *DecisionService {
	return &DecisionService{
		Deps:   deps,
		mailer: mailer,
		logger: logger,
	}
}

// Decide approves or declines a pending offer. The offer and the claim are
// updated in one critical section; the claimant mail for an approval is
// dispatched after the section is released.
func (s *DecisionService) Decide(ctx context.Context, principal domain.Principal, notificationID string, outcome domain.Outcome) (*domain.Claim, error) {
	claim, err := s.decide(ctx, principal, notificationID, outcome)
	metrics.Decisions.WithLabelValues(string(outcome), metrics.Result(err)).Inc()
	return claim, err
}

func (s *DecisionService) decide(ctx context.Context, principal domain.Principal, notificationID string, outcome domain.Outcome) (*domain.Claim, error) {
	if !outcome.Valid() {
		return nil, domain.ErrInvalidOutcome
	}

	// claim_id never changes, so it is safe to read before taking the lock
	n, err := s.Notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.AssigneeEmail != principal.Identity {
		return nil, domain.ErrForbidden
	}

	var claim *domain.Claim
	err = s.withClaim(ctx, n.ClaimID, func(ctx context.Context) error {
		c, err := s.Claims.GetForUpdate(ctx, n.ClaimID)
		if err != nil {
			return err
		}

		current, err := s.Notifications.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}
		if !current.IsPending() {
			return domain.ErrAlreadyDecided
		}

		to, assignee, move := decisionTarget(c.Status, outcome, current)
		if move && !c.Status.CanTransition(to) {
			return fmt.Errorf("%w: claim %s is %s", domain.ErrInvalidTransition, c.ID, c.Status)
		}

		now := s.now()
		current.Status = outcome.Status()
		current.DecidedAt = &now
		if err := s.Notifications.UpdateStatus(ctx, current); err != nil {
			return err
		}

		if move {
			if err := s.transition(ctx, c, to, assignee, now); err != nil {
				return err
			}
		}

		n = current
		claim = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome == domain.OutcomeApprove {
		s.logger.Info("Claim assignment accepted", "claim_id", claim.ID, "assignee", n.AssigneeEmail)
		s.mailer.Dispatch(mail.Message{
			ClaimantEmail: claim.Email,
			ClaimantName:  claim.Name,
			AssigneeName:  n.AssigneeName,
			ClaimID:       claim.ID,
			Description:   claim.Description,
		})
	}

	return claim, nil
}

// decisionTarget returns the claim status a decision leads to.
// Approval assigns the claim; an in-progress claim keeps its status and only
// changes hands. Decline returns an unassigned claim to the pool and leaves an
// existing assignment untouched.
func decisionTarget(current domain.ClaimStatus, outcome domain.Outcome, n *domain.Notification) (domain.ClaimStatus, *domain.Assignee, bool) {
	if outcome == domain.OutcomeApprove {
		if current == domain.ClaimInProgress {
			return domain.ClaimInProgress, n.Assignee(), true
		}
		return domain.ClaimAssigned, n.Assignee(), true
	}

	switch current {
	case domain.ClaimSubmitted, domain.ClaimNew:
		return domain.ClaimNew, nil, true
	}
	return "", nil, false
}

// Inbox returns pending offers addressed to the caller
func (s *DecisionService) Inbox(ctx context.Context, principal domain.Principal) ([]*domain.Notification, error) {
	return s.Notifications.ListPendingByRecipient(ctx, principal.Identity)
}
