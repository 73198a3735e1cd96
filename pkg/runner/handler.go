package runner

import (
	"context"

	"github.com/civicscribe/intake/pkg/domain"
)

// IOHandler defines the strategy for interacting with the applicant.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the actions to the applicant.
	// Returns true if the actions ask for an answer.
	Output(ctx context.Context, actions []domain.ActionRequest) (bool, error)

	// Input reads one answer. It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (status, errors) distinct from the conversation.
	SystemOutput(ctx context.Context, msg string) error
}

// inputRequest returns the last input request among the actions, if any.
func inputRequest(actions []domain.ActionRequest) (domain.InputRequest, bool) {
	var (
		req   domain.InputRequest
		found bool
	)
	for _, act := range actions {
		if act.Type != domain.ActionRequestInput {
			continue
		}
		if r, ok := act.Payload.(domain.InputRequest); ok {
			req, found = r, true
		}
	}
	return req, found
}
