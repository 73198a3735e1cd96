package ports

import (
	"context"

	"github.com/civicscribe/intake/pkg/domain"
)

// Conversation is the engine surface used by adapters (HTTP, MCP, runner).
// Implementations keep no per-session state; the state travels with every call.
type Conversation interface {
	// Start creates a session positioned at the entry step.
	Start(ctx context.Context, sessionID string, seed *domain.Application) (*domain.State, []domain.ActionRequest)

	// Render calculates the presentation (actions) for a given state without advancing it.
	Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool, error)

	// Navigate applies one answer, returning the new state and the actions for the host.
	Navigate(ctx context.Context, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error)

	// Prefill feeds answers extracted from free text.
	Prefill(ctx context.Context, state *domain.State, text string) (*domain.State, []domain.ActionRequest, error)

	// Inspect returns the graph structure for introspection.
	Inspect() []domain.Node

	// Summary and Document render the draft without changing the state.
	Summary(state *domain.State) string
	Document(state *domain.State) *domain.Application
}
