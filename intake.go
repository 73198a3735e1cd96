package intake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/civicscribe/intake/internal/runtime"
	"github.com/civicscribe/intake/pkg/assembly"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/extract"
	"github.com/civicscribe/intake/pkg/ports"
)

var _ ports.Conversation = (*Engine)(nil)

// Engine is the high-level entry point for the intake library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.EngineOption
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	clock       func() time.Time
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPacing asks hosts to wait d after each reply.
func WithPacing(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPacing(d))
	}
}

// WithClock overrides the time source used when stamping documents.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithEntryStep configures the initial step (default: consent).
func WithEntryStep(id domain.StepID) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEntryStep(id))
	}
}

// New initializes a new intake Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{Name: "civicscribe", clock: time.Now}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("graph", eng.Name)

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.clock),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(runtimeOpts...)
	return eng
}

// Start creates the initial state for a session and returns the welcome actions.
// The seed draft, if any, is copied.
func (e *Engine) Start(ctx context.Context, sessionID string, seed *domain.Application) (*domain.State, []domain.ActionRequest) {
	return e.runtime.Start(ctx, sessionID, seed)
}

// Render generates the actions (view) for the current state without transitioning.
// Returns actions, isTerminal, and error.
func (e *Engine) Render(ctx context.Context, state *domain.State) ([]domain.ActionRequest, bool, error) {
	return e.runtime.Render(ctx, state)
}

// Navigate applies one user answer.
func (e *Engine) Navigate(ctx context.Context, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error) {
	return e.runtime.Navigate(ctx, state, input)
}

// Transition is the pure step function: no hooks, no state bookkeeping.
func (e *Engine) Transition(step domain.StepID, raw string, app *domain.Application, pending domain.Pending) runtime.Outcome {
	return e.runtime.Transition(step, raw, app, pending)
}

// Prefill runs the free-text extractor over text and feeds whatever it found as
// answers, starting at the current step, for as long as each one is accepted.
func (e *Engine) Prefill(ctx context.Context, state *domain.State, text string) (*domain.State, []domain.ActionRequest, error) {
	res, err := extract.Text(text)
	if err != nil {
		return state, nil, fmt.Errorf("prefill: %w", err)
	}

	var actions []domain.ActionRequest
	used := make(map[domain.StepID]bool)
	for {
		answer, ok := extract.AnswerFor(state.Step, res)
		if !ok || used[state.Step] {
			break
		}
		used[state.Step] = true

		next, acts, err := e.runtime.Navigate(ctx, state, answer)
		if err != nil {
			return state, actions, err
		}
		actions = append(actions, acts...)
		held := next.Step == state.Step
		state = next
		if held {
			break
		}
	}
	e.logger.Debug("prefill applied", "session_id", state.SessionID, "steps", len(used))
	return state, actions, nil
}

// Inspect returns the full graph definition for visualization or introspection tools.
func (e *Engine) Inspect() []domain.Node {
	return e.runtime.Inspect()
}

// Summary renders the narrative summary of the state's draft. It never changes the state.
func (e *Engine) Summary(state *domain.State) string {
	return assembly.Summary(state.Application)
}

// Document returns the structured document for the state's draft. A finalized
// session returns its stamped document; an open one is stamped with the current time
// on the copy only.
func (e *Engine) Document(state *domain.State) *domain.Application {
	return assembly.Assemble(state.Application, e.clock())
}
