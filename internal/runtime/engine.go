package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/validate"
	"github.com/mohae/deepcopy"
)

var compiled = func() *Graph {
	g, err := buildGraph()
	if err != nil {
		panic(err)
	}
	return g
}()

// Engine is the core state machine runner.
type Engine struct {
	graph  *Graph
	entry  domain.StepID
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	pacing time.Duration
	clock  func() time.Time
}

// EngineOption configures the runtime engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. Raw answers are never logged.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPacing makes every turn end with a PACE action of the given delay.
func WithPacing(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.pacing = d
	}
}

// WithClock overrides the time source used for the completion timestamp.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEntryStep starts new sessions at a step other than consent.
func WithEntryStep(id domain.StepID) EngineOption {
	return func(e *Engine) {
		e.entry = id
	}
}

// NewEngine creates an engine over the compiled step graph.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  compiled,
		entry:  domain.EntryStep,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, ok := e.graph.lookup(e.entry); !ok {
		e.logger.Warn("entry step not in graph, using default", "step", e.entry)
		e.entry = domain.EntryStep
	}
	return e
}

// Outcome is the result of a single transition.
type Outcome struct {
	Application *domain.Application
	Pending     domain.Pending
	Utterances  []string
	Next        domain.StepID
	// Accepted is false when the step held: a failed validation or an unknown step.
	Accepted  bool
	Finalized bool
	// Reason carries the rejection hint, if any.
	Reason string
}

// Transition applies one raw answer to the step. The inputs are never mutated.
// It never fails: bad input holds the step with a corrective re-prompt and an
// unknown step answers with the disclaimer.
func (e *Engine) Transition(step domain.StepID, raw string, app *domain.Application, pending domain.Pending) Outcome {
	if app == nil {
		app = domain.NewApplication()
	}
	t := &turn{
		app:     deepcopy.Copy(app).(*domain.Application),
		pending: deepcopy.Copy(&pending).(*domain.Pending),
		raw:     validate.Clean(raw),
		now:     e.clock(),
	}
	t.app.Normalize()
	t.lower = strings.ToLower(t.raw)
	t.skip = validate.IsSkip(t.raw)
	t.yes = validate.IsYes(t.raw)

	n, ok := e.graph.lookup(step)
	if !ok {
		e.logger.Warn("transition on unknown step", "step", step, "err", domain.ErrUnknownStep)
		return Outcome{
			Application: app,
			Pending:     pending,
			Utterances:  []string{Disclaimer},
			Next:        step,
			Reason:      domain.ErrUnknownStep.Error(),
		}
	}

	if err := n.handle(t); err != nil {
		hint := validate.Hint(err)
		return Outcome{
			Application: app,
			Pending:     pending,
			Utterances:  []string{hint, n.ask(app)},
			Next:        step,
			Reason:      hint,
		}
	}

	next := t.next
	if next == "" {
		next = n.next
	}
	out := Outcome{
		Application: t.app,
		Pending:     *t.pending,
		Utterances:  t.say,
		Next:        next,
		Accepted:    true,
		Finalized:   t.finalized,
	}
	if next != step {
		if nn, ok := e.graph.lookup(next); ok {
			out.Utterances = append(out.Utterances, nn.ask(t.app))
		}
	}
	return out
}

// Start creates the initial state for a session and renders the first prompt.
// A nil seed starts from an empty draft.
func (e *Engine) Start(ctx context.Context, sessionID string, seed *domain.Application) (*domain.State, []domain.ActionRequest) {
	state := domain.NewState(sessionID, seed)
	state.Step = e.entry
	state.History = []domain.StepID{e.entry}

	e.logger.Debug("session started", "session_id", sessionID, "step", state.Step)
	e.emit(ctx, e.hooks.OnStepEnter, domain.EventStepEnter, state.SessionID, state.Step, "")

	actions := []domain.ActionRequest{domain.Say(Welcome)}
	view, _, _ := e.Render(ctx, state)
	return state, append(actions, view...)
}

// Render generates the actions (view) for the current state without transitioning.
// Returns actions, isTerminal, and an error wrapping ErrUnknownStep if the state
// points outside the graph.
func (e *Engine) Render(_ context.Context, state *domain.State) ([]domain.ActionRequest, bool, error) {
	if state == nil {
		return nil, false, errors.New("state cannot be nil")
	}
	n, ok := e.graph.lookup(state.Step)
	if !ok {
		return []domain.ActionRequest{domain.Say(Disclaimer)}, false, fmt.Errorf("render %q: %w", state.Step, domain.ErrUnknownStep)
	}
	app := state.Application
	if app == nil {
		app = domain.NewApplication()
	}
	return []domain.ActionRequest{
		domain.Say(n.ask(app)),
		{Type: domain.ActionRequestInput, Payload: n.request(app)},
	}, n.kind == domain.NodeTerminal, nil
}

// Navigate applies one user turn and returns the next state plus the actions for the host.
// The given state is not modified.
func (e *Engine) Navigate(ctx context.Context, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error) {
	if state == nil {
		return nil, nil, errors.New("state cannot be nil")
	}

	out := e.Transition(state.Step, input, state.Application, state.Pending)

	next := state.Snapshot()
	if out.Accepted {
		next.Application = out.Application
		next.Pending = out.Pending
	}

	if !out.Accepted {
		e.logger.Debug("answer held", "session_id", state.SessionID, "step", state.Step)
		e.emit(ctx, e.hooks.OnReject, domain.EventReject, state.SessionID, state.Step, out.Reason)
	}

	if out.Accepted && out.Next != state.Step {
		e.emit(ctx, e.hooks.OnStepLeave, domain.EventStepLeave, state.SessionID, state.Step, "")
		next.Step = out.Next
		next.History = append(next.History, out.Next)
		e.logger.Debug("step advanced", "session_id", state.SessionID, "from", state.Step, "to", out.Next)
		e.emit(ctx, e.hooks.OnStepEnter, domain.EventStepEnter, state.SessionID, out.Next, "")
	}

	if out.Finalized {
		next.Status = domain.StatusFinalized
		e.logger.Info("application finalized", "session_id", state.SessionID)
		e.emit(ctx, e.hooks.OnFinalize, domain.EventFinalize, state.SessionID, next.Step, "")
	}

	actions := make([]domain.ActionRequest, 0, len(out.Utterances)+2)
	for _, u := range out.Utterances {
		actions = append(actions, domain.Say(u))
	}
	if n, ok := e.graph.lookup(next.Step); ok {
		actions = append(actions, domain.ActionRequest{Type: domain.ActionRequestInput, Payload: n.request(next.Application)})
	}
	if e.pacing > 0 {
		actions = append(actions, domain.ActionRequest{Type: domain.ActionPace, Payload: domain.PaceRequest{Delay: e.pacing}})
	}
	return next, actions, nil
}

// Inspect returns the full graph definition for visualization or introspection tools.
func (e *Engine) Inspect() []domain.Node {
	return e.graph.Nodes()
}

// Entry is the step new sessions start at.
func (e *Engine) Entry() domain.StepID { return e.entry }

func (e *Engine) emit(ctx context.Context, hook func(context.Context, *domain.StepEvent), typ domain.EventType, sessionID string, step domain.StepID, reason string) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		Timestamp: e.clock(),
		Type:      typ,
		SessionID: sessionID,
		Step:      step,
		Reason:    reason,
	})
}
