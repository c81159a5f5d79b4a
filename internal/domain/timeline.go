package domain

import "time"

// ProgressStep представляет этап публичного трекинга
type ProgressStep string

// Этапы в порядке прохождения
const (
	StepSubmitted  ProgressStep = "submitted"
	StepAssigned   ProgressStep = "assigned"
	StepInProgress ProgressStep = "in_progress"
	StepResolved   ProgressStep = "resolved"
)

// ProgressSteps задает полный порядок этапов
var ProgressSteps = []ProgressStep{StepSubmitted, StepAssigned, StepInProgress, StepResolved}

// StepState представляет состояние отдельного этапа
type StepState string

const (
	StepComplete StepState = "complete"
	StepPending  StepState = "pending"
)

// TimelineStep описывает один этап таймлайна
type TimelineStep struct {
	Step  ProgressStep `json:"step"`
	State StepState    `json:"state"`
}

// Timeline представляет производное представление прогресса claim'а
type Timeline struct {
	ClaimID       string         `json:"claim_id"`
	Status        ClaimStatus    `json:"status"`
	Steps         []TimelineStep `json:"steps"`
	CurrentStep   ProgressStep   `json:"current_step"`
	Percent       int            `json:"percent"`
	Rejected      bool           `json:"rejected"`
	AssignedTo    *string        `json:"assigned_to"`
	AssignedUnder *string        `json:"assigned_under"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Complete возвращает состояние этапа step
func (t *Timeline) Complete(step ProgressStep) bool {
	for _, s := range t.Steps {
		if s.Step == step {
			return s.State == StepComplete
		}
	}
	return false
}

// TrackingView представляет публичную страницу отслеживания claim'а
type TrackingView struct {
	ClaimID     string    `json:"claim_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Zipcode     string    `json:"zipcode"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	Timeline    *Timeline `json:"timeline"`
}
