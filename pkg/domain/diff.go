package domain

import (
	"reflect"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Step   *StepID          `json:"step,omitempty"`
	Status *ExecutionStatus `json:"status,omitempty"`

	// Sections contains only the application sections whose content changed,
	// keyed by their JSON name. Clients replace the section wholesale.
	Sections map[string]any `json:"sections,omitempty"`

	// History contains steps appended since the old state.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the history stack.
type HistoryDelta struct {
	Appended []StepID `json:"appended"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Step != newState.Step {
		diff.Step = &newState.Step
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}

	var oldApp *Application
	if oldState != nil {
		oldApp = oldState.Application
	}
	diff.Sections = diffSections(oldApp, newState.Application)
	diff.History = diffHistory(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// Sections splits an application into its top-level sections, keyed by JSON name.
func Sections(app *Application) map[string]any {
	if app == nil {
		return nil
	}
	return map[string]any{
		"meta":          app.Meta,
		"applicant":     app.Applicant,
		"household":     app.Household,
		"income":        app.Income,
		"expenses":      app.Expenses,
		"assets":        app.Assets,
		"work_activity": app.WorkActivity,
		"declarations":  app.Declarations,
	}
}

func diffSections(old, new *Application) map[string]any {
	newSections := Sections(new)
	if newSections == nil {
		return nil
	}
	oldSections := Sections(old)

	delta := make(map[string]any)
	for name, val := range newSections {
		if oldVal, ok := oldSections[name]; !ok || !reflect.DeepEqual(oldVal, val) {
			delta[name] = val
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffHistory assumes standard append-only behavior for History.
func diffHistory(old *State, new *State) *HistoryDelta {
	if len(new.History) == 0 {
		return nil
	}
	if old == nil {
		return &HistoryDelta{Appended: new.History}
	}
	if len(new.History) > len(old.History) {
		return &HistoryDelta{Appended: new.History[len(old.History):]}
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Step == nil &&
		d.Status == nil &&
		len(d.Sections) == 0 &&
		d.History == nil
}
