package domain

import (
	"time"
)

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display an assistant utterance.
	// Payload: string
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect the next answer.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionPace asks the host to wait before accepting the next turn.
	// Payload: PaceRequest
	ActionPace = "PACE"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputText    InputType = "text"
	InputConfirm InputType = "confirm"
	InputChoice  InputType = "choice"
)

// InputRequest describes the answer expected for a step.
type InputRequest struct {
	Step    StepID    `json:"step"`
	Type    InputType `json:"type"`
	Options []string  `json:"options,omitempty"`
	Default string    `json:"default,omitempty"`
}

// PaceRequest delays readiness for the next turn. It is presentation only.
type PaceRequest struct {
	Delay time.Duration `json:"delay"`
}

// Say builds a content action.
func Say(text string) ActionRequest {
	return ActionRequest{Type: ActionRenderContent, Payload: text}
}

// Utterances extracts the text of all content actions, in order.
func Utterances(actions []ActionRequest) []string {
	var out []string
	for _, act := range actions {
		if act.Type != ActionRenderContent {
			continue
		}
		if msg, ok := act.Payload.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
