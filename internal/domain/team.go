package domain

// MemberStatus представляет статус участника команды
type MemberStatus string

// Возможные статусы участника
const (
	MemberActive   MemberStatus = "Active"
	MemberInactive MemberStatus = "Inactive"
)

// TeamMember представляет участника команды администратора (публичного адъюстера)
type TeamMember struct {
	ID         string       `json:"id"`
	AdminEmail string       `json:"admin_email"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Role       string       `json:"role"`
	Status     MemberStatus `json:"status"`
}

// IsActive возвращает true если участник может получать назначения
func (m *TeamMember) IsActive() bool {
	return m.Status == MemberActive
}

// Team представляет ростер администратора
type Team struct {
	AdminEmail string        `json:"admin_email"`
	Members    []*TeamMember `json:"members"`
}
