package domain

import (
	"github.com/mohae/deepcopy"
)

// ExecutionStatus describes where a session is in its lifecycle.
type ExecutionStatus string

const (
	StatusActive    ExecutionStatus = "active"    // Collecting answers
	StatusFinalized ExecutionStatus = "finalized" // Structured document produced
)

// State is the full snapshot of a conversation session.
type State struct {
	// SessionID is assigned by the hosting layer.
	SessionID string `json:"session_id"`

	// Step is the current position in the graph.
	Step StepID `json:"step"`

	Status ExecutionStatus `json:"status"`

	// Application is the draft being filled.
	Application *Application `json:"application,omitempty"`

	// Pending is scratch space for the sub-loop in progress.
	Pending Pending `json:"pending"`

	// History is the sequence of steps entered, starting with the entry step.
	History []StepID `json:"history"`

	// Sealed carries an encrypted copy of the state when persisted through
	// the encryption middleware. Empty otherwise.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a session positioned at the entry step.
// A nil app starts from an empty draft.
func NewState(sessionID string, app *Application) *State {
	if app == nil {
		app = NewApplication()
	} else {
		app = deepcopy.Copy(app).(*Application)
		app.Normalize()
	}
	return &State{
		SessionID:   sessionID,
		Step:        EntryStep,
		Status:      StatusActive,
		Application: app,
		History:     []StepID{EntryStep},
	}
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	return deepcopy.Copy(s).(*State)
}
