// Package memory содержит потокобезопасные in-memory репозитории.
// Используются в unit-тестах и при STORAGE_DRIVER=memory для локального запуска.
// Ограничения повторяют схему PostgreSQL: одно pending уведомление на claim,
// однократный переход уведомления из pending.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/claims-engine/internal/domain"
)

// Store хранит все данные в памяти процесса
type Store struct {
	mu            sync.RWMutex
	claims        map[string]domain.Claim
	notifications map[string]domain.Notification
	members       map[string]domain.TeamMember
	now           func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		claims:        make(map[string]domain.Claim),
		notifications: make(map[string]domain.Notification),
		members:       make(map[string]domain.TeamMember),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Claims возвращает репозиторий claim'ов
func (s *Store) Claims() *ClaimRepository { return &ClaimRepository{s: s} }

// Notifications возвращает репозиторий уведомлений
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

// Team возвращает репозиторий ростера
func (s *Store) Team() *TeamRepository { return &TeamRepository{s: s} }

// Transactor возвращает транзакционный адаптер.
// Атомарность записей обеспечивает блокировка claim'а на уровне сервиса.
func (s *Store) Transactor() *Transactor { return &Transactor{} }

// Transactor реализует repository.Transactor без отката изменений
type Transactor struct{}

// WithinTx выполняет fn
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ClaimRepository реализует repository.ClaimRepository
type ClaimRepository struct {
	s *Store
}

// Create сохраняет новый claim
func (r *ClaimRepository) Create(_ context.Context, claim *domain.Claim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	claim.ID = uuid.NewString()
	claim.CreatedAt = r.s.now()
	claim.UpdatedAt = claim.CreatedAt
	r.s.claims[claim.ID] = copyClaim(claim)
	return nil
}

// GetByID получает claim по ID
func (r *ClaimRepository) GetByID(_ context.Context, claimID string) (*domain.Claim, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.claims[claimID]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	out := copyClaim(&c)
	return &out, nil
}

// GetForUpdate эквивалентен GetByID
func (r *ClaimRepository) GetForUpdate(ctx context.Context, claimID string) (*domain.Claim, error) {
	return r.GetByID(ctx, claimID)
}

// Update записывает статус и поля исполнителя
func (r *ClaimRepository) Update(_ context.Context, claim *domain.Claim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.claims[claim.ID]
	if !ok {
		return domain.ErrClaimNotFound
	}

	next := copyClaim(claim)
	current.Status = next.Status
	current.AssignedTo = next.AssignedTo
	current.AssignedUnder = next.AssignedUnder
	current.UpdatedAt = next.UpdatedAt
	r.s.claims[claim.ID] = current
	return nil
}

// ListByAssignee возвращает claim'ы адъюстера
func (r *ClaimRepository) ListByAssignee(_ context.Context, identity string) ([]*domain.Claim, error) {
	return r.list(func(c *domain.Claim) bool { return c.IsAssignedTo(identity) }), nil
}

// ListAll возвращает все claim'ы
func (r *ClaimRepository) ListAll(_ context.Context) ([]*domain.Claim, error) {
	return r.list(func(*domain.Claim) bool { return true }), nil
}

func (r *ClaimRepository) list(keep func(*domain.Claim) bool) []*domain.Claim {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	claims := []*domain.Claim{}
	for _, c := range r.s.claims {
		if keep(&c) {
			out := copyClaim(&c)
			claims = append(claims, &out)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].CreatedAt.After(claims[j].CreatedAt)
	})
	return claims
}

// NotificationRepository реализует repository.NotificationRepository
type NotificationRepository struct {
	s *Store
}

// Create сохраняет новое уведомление, второе pending уведомление на claim отклоняется
func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n.IsPending() {
		for _, existing := range r.s.notifications {
			if existing.ClaimID == n.ClaimID && existing.IsPending() {
				return domain.ErrConflict
			}
		}
	}

	n.ID = uuid.NewString()
	n.CreatedAt = r.s.now()
	r.s.notifications[n.ID] = *n
	return nil
}

// GetByID получает уведомление по ID
func (r *NotificationRepository) GetByID(_ context.Context, notificationID string) (*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[notificationID]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return &n, nil
}

// UpdateStatus переводит уведомление из pending в итоговый статус
func (r *NotificationRepository) UpdateStatus(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.notifications[n.ID]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	if !current.IsPending() {
		return domain.ErrAlreadyDecided
	}

	current.Status = n.Status
	current.DecidedAt = n.DecidedAt
	r.s.notifications[n.ID] = current
	return nil
}

// GetPendingByClaim возвращает ожидающее уведомление claim'а или nil
func (r *NotificationRepository) GetPendingByClaim(_ context.Context, claimID string) (*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, n := range r.s.notifications {
		if n.ClaimID == claimID && n.IsPending() {
			return &n, nil
		}
	}
	return nil, nil
}

// ListByClaim возвращает историю уведомлений claim'а
func (r *NotificationRepository) ListByClaim(_ context.Context, claimID string) ([]*domain.Notification, error) {
	return r.list(func(n *domain.Notification) bool { return n.ClaimID == claimID }, false), nil
}

// ListPendingByRecipient возвращает ожидающие уведомления адресата
func (r *NotificationRepository) ListPendingByRecipient(_ context.Context, identity string) ([]*domain.Notification, error) {
	return r.list(func(n *domain.Notification) bool {
		return n.AssigneeEmail == identity && n.IsPending()
	}, true), nil
}

func (r *NotificationRepository) list(keep func(*domain.Notification) bool, newestFirst bool) []*domain.Notification {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Notification{}
	for _, n := range r.s.notifications {
		if keep(&n) {
			n := n
			out = append(out, &n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// TeamRepository реализует repository.TeamRepository
type TeamRepository struct {
	s *Store
}

// AddMember добавляет участника в ростер
func (r *TeamRepository) AddMember(_ context.Context, member *domain.TeamMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.members {
		if m.AdminEmail == member.AdminEmail && m.Email == member.Email {
			return domain.ErrConflict
		}
	}

	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	r.s.members[member.ID] = *member
	return nil
}

// GetMember получает участника по ID
func (r *TeamRepository) GetMember(_ context.Context, memberID string) (*domain.TeamMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.members[memberID]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &m, nil
}

// ListMembers возвращает ростер администратора
func (r *TeamRepository) ListMembers(_ context.Context, adminEmail string) ([]*domain.TeamMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := []*domain.TeamMember{}
	for _, m := range r.s.members {
		if m.AdminEmail == adminEmail {
			m := m
			members = append(members, &m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// copyClaim копирует claim вместе с указателями на поля исполнителя
func copyClaim(c *domain.Claim) domain.Claim {
	out := *c
	if c.AssignedTo != nil {
		v := *c.AssignedTo
		out.AssignedTo = &v
	}
	if c.AssignedUnder != nil {
		v := *c.AssignedUnder
		out.AssignedUnder = &v
	}
	return out
}
