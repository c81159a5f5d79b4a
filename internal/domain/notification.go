package domain

import "time"

// NotificationStatus представляет статус предложения о назначении
type NotificationStatus string

// Возможные статусы уведомления
const (
	NotificationPending  NotificationStatus = "pending"  // Ожидает решения адъюстера
	NotificationApproved NotificationStatus = "approved" // Адъюстер принял claim
	NotificationDeclined NotificationStatus = "declined" // Отклонено адъюстером или вытеснено переназначением
)

// Outcome представляет решение адъюстера
type Outcome string

// Возможные решения
const (
	OutcomeApprove Outcome = "approve"
	OutcomeDecline Outcome = "decline"
)

// Valid проверяет, что решение входит в перечисление
func (o Outcome) Valid() bool {
	return o == OutcomeApprove || o == OutcomeDecline
}

// Status возвращает итоговый статус уведомления для решения
func (o Outcome) Status() NotificationStatus {
	if o == OutcomeApprove {
		return NotificationApproved
	}
	return NotificationDeclined
}

// Notification представляет предложение назначить claim участнику команды
type Notification struct {
	ID            string             `json:"id"`
	ClaimID       string             `json:"claim_id"`
	MemberID      string             `json:"member_id"`
	AssigneeName  string             `json:"assignee_name"`
	AssigneeEmail string             `json:"assignee_email"`
	AssignedBy    string             `json:"assigned_by"`
	Status        NotificationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	DecidedAt     *time.Time         `json:"decided_at,omitempty"`
}

// IsPending возвращает true пока решение не принято
func (n *Notification) IsPending() bool {
	return n.Status == NotificationPending
}

// Assignee возвращает данные предложенного исполнителя
func (n *Notification) Assignee() *Assignee {
	return &Assignee{Name: n.AssigneeName, Email: n.AssigneeEmail}
}
