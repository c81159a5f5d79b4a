package domain

// AdjusterStats содержит статистику по одному адъюстеру
type AdjusterStats struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Active   int    `json:"active"`   // assigned + in_progress
	Resolved int    `json:"resolved"` // закрытые claim'ы
}

// Stats содержит сводную статистику по claim'ам
type Stats struct {
	TotalClaims          int                 `json:"total_claims"`
	ByStatus             map[ClaimStatus]int `json:"by_status"`
	PendingNotifications int                 `json:"pending_notifications"`
	Adjusters            []AdjusterStats     `json:"adjusters"`
}
