package runner

import (
	"context"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/ports"
)

// RichResponse combines state and rendering actions for rich clients (Web, MCP, etc).
type RichResponse struct {
	State     *domain.State          `json:"state"`
	Messages  []string               `json:"messages"`
	Actions   []domain.ActionRequest `json:"actions,omitempty"`
	Step      domain.StepID          `json:"step"`
	Finalized bool                   `json:"finalized"`
}

// NewRichResponse wraps a state and the actions produced for it.
func NewRichResponse(state *domain.State, actions []domain.ActionRequest) *RichResponse {
	messages := domain.Utterances(actions)
	if messages == nil {
		messages = []string{}
	}
	return &RichResponse{
		State:     state,
		Messages:  messages,
		Actions:   actions,
		Step:      state.Step,
		Finalized: state.Status == domain.StatusFinalized,
	}
}

// NavigateAndRender applies one answer and wraps the result.
func NavigateAndRender(ctx context.Context, engine ports.Conversation, state *domain.State, input string) (*RichResponse, error) {
	next, actions, err := engine.Navigate(ctx, state, input)
	if err != nil {
		return nil, err
	}
	return NewRichResponse(next, actions), nil
}

// PrefillAndRender feeds free text through the extractor and wraps the result.
func PrefillAndRender(ctx context.Context, engine ports.Conversation, state *domain.State, text string) (*RichResponse, error) {
	next, actions, err := engine.Prefill(ctx, state, text)
	if err != nil {
		return nil, err
	}
	return NewRichResponse(next, actions), nil
}
