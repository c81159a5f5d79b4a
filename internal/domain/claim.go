package domain

import (
	"fmt"
	"time"
)

// ClaimStatus представляет статус страхового случая
type ClaimStatus string

// Возможные статусы claim'а
const (
	ClaimSubmitted  ClaimStatus = "submitted"   // Заявка подана через форму
	ClaimNew        ClaimStatus = "new"         // Возвращена в пул неназначенных
	ClaimAssigned   ClaimStatus = "assigned"    // Назначена адъюстеру
	ClaimInProgress ClaimStatus = "in_progress" // Адъюстер начал работу
	ClaimResolved   ClaimStatus = "resolved"    // Закрыта (терминальный)
	ClaimRejected   ClaimStatus = "rejected"    // Отклонена администратором (терминальный)
)

// Priority представляет приоритет claim'а (информационное поле)
type Priority string

// Возможные приоритеты
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ClaimStatuses перечисляет все статусы в порядке жизненного цикла
var ClaimStatuses = []ClaimStatus{
	ClaimSubmitted, ClaimNew, ClaimAssigned, ClaimInProgress, ClaimResolved, ClaimRejected,
}

// transitions описывает допустимые переходы статусов.
// Самопереходы assigned->assigned и in_progress->in_progress означают смену исполнителя.
var transitions = map[ClaimStatus][]ClaimStatus{
	ClaimSubmitted:  {ClaimNew, ClaimAssigned, ClaimRejected},
	ClaimNew:        {ClaimNew, ClaimAssigned, ClaimRejected},
	ClaimAssigned:   {ClaimAssigned, ClaimInProgress, ClaimRejected},
	ClaimInProgress: {ClaimInProgress, ClaimResolved, ClaimRejected},
	ClaimResolved:   {},
	ClaimRejected:   {},
}

// Valid проверяет, что статус входит в перечисление
func (s ClaimStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal возвращает true для resolved и rejected
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimResolved || s == ClaimRejected
}

// HasAssignee возвращает true для статусов, в которых у claim'а обязан быть исполнитель
func (s ClaimStatus) HasAssignee() bool {
	return s == ClaimAssigned || s == ClaimInProgress || s == ClaimResolved
}

// CanTransition проверяет достижимость статуса to из s
func (s ClaimStatus) CanTransition(to ClaimStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid проверяет, что приоритет входит в перечисление
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Assignee содержит данные исполнителя, которые записываются в claim при принятии
type Assignee struct {
	Name  string // Отображаемое имя (assignedTo)
	Email string // Аккаунт адъюстера (assignedUnder)
}

// Claim представляет страховой случай
type Claim struct {
	ID            string      `json:"id"`
	Status        ClaimStatus `json:"status"`
	Priority      Priority    `json:"priority"`
	AssignedTo    *string     `json:"assigned_to"`
	AssignedUnder *string     `json:"assigned_under"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	Zipcode       string      `json:"zipcode"`
	Description   string      `json:"description"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsAssignedTo проверяет, что claim закреплен за указанным аккаунтом
func (c *Claim) IsAssignedTo(identity string) bool {
	return c.AssignedUnder != nil && *c.AssignedUnder == identity
}

// Transition переводит claim в статус to, поддерживая инвариант исполнителя:
// для assigned/in_progress/resolved исполнитель должен быть (новый или текущий),
// для остальных статусов он сбрасывается.
func (c *Claim) Transition(to ClaimStatus, assignee *Assignee, now time.Time) error {
	if !c.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}

	switch {
	case to.HasAssignee() && assignee != nil:
		name, email := assignee.Name, assignee.Email
		c.AssignedTo, c.AssignedUnder = &name, &email
	case to.HasAssignee():
		if c.AssignedTo == nil || c.AssignedUnder == nil {
			return fmt.Errorf("%w: %s requires an assignee", ErrInvalidTransition, to)
		}
	default:
		c.AssignedTo, c.AssignedUnder = nil, nil
	}

	c.Status = to
	c.UpdatedAt = now
	return nil
}

// CheckInvariant проверяет, что поля исполнителя согласованы со статусом
func (c *Claim) CheckInvariant() error {
	hasAssignee := c.AssignedTo != nil && c.AssignedUnder != nil
	if hasAssignee != c.Status.HasAssignee() || (c.AssignedTo == nil) != (c.AssignedUnder == nil) {
		return fmt.Errorf("claim %s: assignee fields inconsistent with status %s", c.ID, c.Status)
	}
	return nil
}

// ClaimIntake содержит данные, поступающие из формы подачи заявки
type ClaimIntake struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	Zipcode     string   `json:"zipcode"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}
