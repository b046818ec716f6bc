package entities

import "time"

type RunStatus string

const (
	RunStatusCompleted  RunStatus = "completed"
	RunStatusInProgress RunStatus = "in-progress"
	RunStatusFailed     RunStatus = "failed"
)

type RunMessage struct {
	StepID    string
	Timestamp time.Time
	Message   string
}

// RunLog is the immutable record of one simulated execution. Messages keep
// step order with strictly increasing timestamps. Logs outlive their
// automation: deletion of the automation never removes them.
type RunLog struct {
	RunLogID     string
	AutomationID string
	Status       RunStatus
	StartedAt    time.Time
	Messages     []RunMessage
}
