package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/lock"
	"github.com/aidar/claims-engine/internal/mail"
	"github.com/aidar/claims-engine/internal/repository/memory"
)

const (
	adminEmail = "admin@adjusters.com"
	bobEmail   = "bob@adjusters.com"
	carolEmail = "carol@adjusters.com"
)

var (
	admin = domain.Principal{Identity: adminEmail, Role: domain.RoleAdmin}
	bob   = domain.Principal{Identity: bobEmail, Role: domain.RoleAdjuster}
	carol = domain.Principal{Identity: carolEmail, Role: domain.RoleAdjuster}
)

// recordingSender запоминает отправленные письма
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

type testEnv struct {
	store       *memory.Store
	sender      *recordingSender
	dispatcher  *mail.Dispatcher
	claims      *ClaimService
	assignments *AssignmentService
	decisions   *DecisionService
	projector   *ProgressProjector
	team        *TeamService
	stats       *StatsService

	bobID   string
	carolID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	sender := &recordingSender{}
	dispatcher := mail.NewDispatcher(sender, time.Second, logger)

	deps := Deps{
		Claims:        store.Claims(),
		Notifications: store.Notifications(),
		Team:          store.Team(),
		Tx:            store.Transactor(),
		Locker:        lock.NewLocal(5 * time.Second),
	}

	env := &testEnv{
		store:       store,
		sender:      sender,
		dispatcher:  dispatcher,
		claims:      NewClaimService(deps),
		assignments: NewAssignmentService(deps),
		decisions:   NewDecisionService(deps, dispatcher, logger),
		projector:   NewProgressProjector(store.Claims()),
		team:        NewTeamService(store.Team()),
		stats:       NewStatsService(store.Stats()),
	}

	env.bobID = env.addMember(t, "Bob", bobEmail, domain.MemberActive)
	env.carolID = env.addMember(t, "Carol", carolEmail, domain.MemberActive)
	return env
}

func (e *testEnv) addMember(t *testing.T, name, email string, status domain.MemberStatus) string {
	t.Helper()
	m, err := e.team.AddMember(context.Background(), admin, &domain.TeamMember{
		Name:   name,
		Email:  email,
		Status: status,
	})
	require.NoError(t, err)
	return m.ID
}

func (e *testEnv) createClaim(t *testing.T) *domain.Claim {
	t.Helper()
	c, err := e.claims.Create(context.Background(), domain.ClaimIntake{
		Name:        "Alice",
		Email:       "alice@example.com",
		Phone:       "555-0100",
		Address:     "1 Main St",
		Zipcode:     "10001",
		Description: "Hail damage to roof",
	})
	require.NoError(t, err)
	return c
}

// assignAndApprove доводит claim до assigned за участником memberID
func (e *testEnv) assignAndApprove(t *testing.T, claimID, memberID string, who domain.Principal) *domain.Claim {
	t.Helper()
	ctx := context.Background()

	n, err := e.assignments.Assign(ctx, admin, claimID, memberID)
	require.NoError(t, err)

	c, err := e.decisions.Decide(ctx, who, n.ID, domain.OutcomeApprove)
	require.NoError(t, err)
	return c
}

func (e *testEnv) pendingCount(t *testing.T, claimID string) int {
	t.Helper()
	history, err := e.store.Notifications().ListByClaim(context.Background(), claimID)
	require.NoError(t, err)

	count := 0
	for _, n := range history {
		if n.IsPending() {
			count++
		}
	}
	return count
}

var errMailDown = errors.New("smtp unavailable")
