package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/claims-engine/internal/domain"
)

func TestClaimService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	claim, err := env.claims.Create(ctx, domain.ClaimIntake{
		Name:        "  Alice ",
		Email:       "alice@example.com",
		Description: "Water leak",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, claim.ID)
	assert.Equal(t, domain.ClaimSubmitted, claim.Status)
	assert.Equal(t, domain.PriorityMedium, claim.Priority)
	assert.Equal(t, "Alice", claim.Name)
	assert.Nil(t, claim.AssignedTo)
	assert.False(t, claim.CreatedAt.IsZero())
}

func TestClaimService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		intake domain.ClaimIntake
	}{
		{"missing name", domain.ClaimIntake{Email: "a@b.com", Description: "d"}},
		{"missing description", domain.ClaimIntake{Name: "A", Email: "a@b.com"}},
		{"bad email", domain.ClaimIntake{Name: "A", Email: "not-an-email", Description: "d"}},
		{"bad priority", domain.ClaimIntake{Name: "A", Email: "a@b.com", Description: "d", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.claims.Create(context.Background(), tt.intake)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestClaimService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.createClaim(t)
	env.createClaim(t)
	env.assignAndApprove(t, first.ID, env.bobID, bob)

	all, err := env.claims.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.claims.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	none, err := env.claims.List(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestClaimService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)
	env.assignAndApprove(t, claim.ID, env.bobID, bob)

	t.Run("resolve requires in_progress first", func(t *testing.T) {
		_, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimResolved)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("only the assignee moves the claim", func(t *testing.T) {
		_, err := env.claims.UpdateStatus(ctx, carol, claim.ID, domain.ClaimInProgress)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("status outside the adjuster set", func(t *testing.T) {
		_, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimNew)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("in_progress then resolved", func(t *testing.T) {
		got, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimInProgress, got.Status)

		got, err = env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimResolved)
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimResolved, got.Status)
		assert.True(t, got.IsAssignedTo(bobEmail))
		assert.NoError(t, got.CheckInvariant())
	})

	t.Run("resolved is terminal", func(t *testing.T) {
		_, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimInProgress)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestClaimService_Reject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.bobID)
	require.NoError(t, err)

	_, err = env.claims.Reject(ctx, bob, claim.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := env.claims.Reject(ctx, admin, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimRejected, got.Status)
	assert.Nil(t, got.AssignedTo)

	stored, err := env.store.Notifications().GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationDeclined, stored.Status)

	_, err = env.decisions.Decide(ctx, bob, n.ID, domain.OutcomeApprove)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	_, err = env.claims.Reject(ctx, admin, claim.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	timeline, err := env.projector.Project(ctx, claim.ID)
	require.NoError(t, err)
	assert.True(t, timeline.Rejected)
}

func TestClaimService_ResolveDeclinesOutstandingOffer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	claim := env.createClaim(t)
	env.assignAndApprove(t, claim.ID, env.bobID, bob)

	_, err := env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimInProgress)
	require.NoError(t, err)

	n, err := env.assignments.Assign(ctx, admin, claim.ID, env.carolID)
	require.NoError(t, err)

	_, err = env.claims.UpdateStatus(ctx, bob, claim.ID, domain.ClaimResolved)
	require.NoError(t, err)
	assert.Equal(t, 0, env.pendingCount(t, claim.ID))

	_, err = env.decisions.Decide(ctx, carol, n.ID, domain.OutcomeApprove)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}
