package domain

// Role представляет роль аутентифицированного пользователя
type Role string

// Возможные роли
const (
	RoleAdmin    Role = "admin"
	RoleAdjuster Role = "adjuster"
)

// Principal представляет вызывающего пользователя, уже аутентифицированного внешней границей доверия.
// Передается в каждую операцию явно.
type Principal struct {
	Identity string `json:"identity"` // e-mail аккаунта
	Role     Role   `json:"role"`
}

// IsAdmin возвращает true для администратора
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
