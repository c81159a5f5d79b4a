package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aidar/claims-engine/internal/domain"
)

func TestDecide_ApproveAssignsClaimAndSendsMail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	got, err := env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
	require.NoError(t, err)

	assert.Equal(t, domain.ClaimAssigned, got.Status)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, "Bob", *got.AssignedTo)
	assert.True(t, got.IsAssignedTo(bobEmail))
	assert.NoError(t, got.CheckInvariant())

	stored, err := env.store.Notifications().GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationApproved, stored.Status)
	assert.NotNil(t, stored.DecidedAt)

	env.dispatcher.Wait()
	sent := env.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].ClaimantEmail)
	assert.Equal(t, "Bob", sent[0].AssigneeName)
	assert.Equal(t, claim.ID, sent[0].ClaimID)
	assert.Equal(t, "Hail damage to roof", sent[0].Description)

	timeline, err := env.projector.Project(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, timeline.Percent)
	assert.Equal(t, domain.StepAssigned, timeline.CurrentStep)

	mine, err := env.claims.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, claim.ID, mine[0].ID)
}

func TestDecide_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	_, err = env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
	require.NoError(t, err)

	_, err = env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
	_, err = env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeDecline)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	env.dispatcher.Wait()
	assert.Len(t, env.sender.Sent(), 1)

	got, err := env.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimAssigned, got.Status)
}

func TestDecide_DeclineReturnsClaimToPool(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	got, err := env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimNew, got.Status)
	assert.Nil(t, got.AssignedTo)
	assert.Nil(t, got.AssignedUnder)

	env.dispatcher.Wait()
	assert.Empty(t, env.sender.Sent())

	// Claim из пула можно назначить снова
	_, err = env.assignments.Assign(ctx, admin, claim.ID, env.carolID)
	assert.NoError(t, err)
}

func TestDecide_DeclineKeepsExistingAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)
	env.assignAndApprove(t, claim.ID, env.bobID, bob)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.carolID)
	require.NoError(t, err)

	got, err := env.decisions.Decide(ctx, carol, n.ID, domain.OutcomeDecline)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimAssigned, got.Status)
	assert.True(t, got.IsAssignedTo(bobEmail))
}

func TestDecide_ApproveOnInProgressChangesHands(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)
	env.assignAndApprove(t, claim.ID, env.bobID, bob)

	_, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimInProgress)
	require.NoError(t, err)

	got := env.assignAndApprove(t, claim.ID, env.carolID, carol)
	assert.Equal(t, domain.ClaimInProgress, got.Status)
	assert.True(t, got.IsAssignedTo(carolEmail))
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, "Carol", *got.AssignedTo)

	_, err = env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimResolved)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecide_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	t.Run("only the recipient decides", func(t *testing.T) {
		_, err := env.decisions.Decide(ctx, carol, n.ID, domain.OutcomeApprove)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown outcome", func(t *testing.T) {
		_, err := env.decisions.Decide(ctx, bob, n.ID, domain.Outcome("maybe"))
		assert.ErrorIs(t, err, domain.ErrInvalidOutcome)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, err := env.decisions.Decide(ctx, bob, "missing", domain.OutcomeApprove)
		assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})

	stored, err := env.store.Notifications().GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
}

func TestDecide_MailFailureKeepsTransition(t *testing.T) {
	env := newTestEnv(t)
	env.sender.err = errMailDown
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	got, err := env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimAssigned, got.Status)

	env.dispatcher.Wait()
	assert.Empty(t, env.sender.Sent())

	stored, err := env.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimAssigned, stored.Status)
}

func TestDecide_ConcurrentDecisionsOnlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	var wins, decided atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		outcome := domain.OutcomeApprove
		if i%2 == 1 {
			outcome = domain.OutcomeDecline
		}
		g.Go(func() error {
			_, err := env.decisions.Decide(ctx, bob, n.ID, outcome)
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, domain.ErrAlreadyDecided):
				decided.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), decided.Load())

	got, err := env.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.NoError(t, got.CheckInvariant())
}

func TestDecide_ApproveAndReassignRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	var g errgroup.Group
	var approveErr error
	g.Go(func() error {
		_, approveErr = env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
		return nil
	})
	g.Go(func() error {
		_, err := env.assignments.Assign(ctx, admin, claim.ID, env.carolID)
		return err
	})
	require.NoError(t, g.Wait())

	got, err := env.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, env.pendingCount(t, claim.ID), 1)

	if approveErr == nil {
		// Решение Bob'а успело до переназначения
		assert.Equal(t, domain.ClaimAssigned, got.Status)
		assert.True(t, got.IsAssignedTo(bobEmail))
	} else {
		assert.ErrorIs(t, approveErr, domain.ErrAlreadyDecided)
		assert.Equal(t, domain.ClaimSubmitted, got.Status)
	}
	assert.Equal(t, 1, env.pendingCount(t, claim.ID))
}
