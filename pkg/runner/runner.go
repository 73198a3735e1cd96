package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/civicscribe/intake/pkg/session"
)

// Runner drives one conversation over an IOHandler until the applicant leaves,
// the input ends or the application is finalized.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging. Answers are never logged.
	Logger *slog.Logger

	// Sessions persists the state after every turn. If nil, sessions are ephemeral.
	Sessions *session.Manager

	// SessionID names the durable session. Required when Sessions is set.
	SessionID string

	// Seed pre-populates a new draft.
	Seed *domain.Application

	// Renderer is applied to content when the default TextHandler is used.
	Renderer ContentRenderer

	// pace waits for a PACE delay; replaced in tests.
	pace func(ctx context.Context, d time.Duration) error
}

// ContentRenderer transforms content before it is written (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		pace:   sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the conversation loop and returns the last state.
// An interrupt (context cancellation) ends the loop cleanly: every accepted turn
// has already been persisted.
func (r *Runner) Run(ctx context.Context, engine ports.Conversation) (*domain.State, error) {
	handler := r.resolveHandler()
	if closer, ok := handler.(io.Closer); ok {
		defer closer.Close()
	}

	state, actions, err := r.resolveInitialState(ctx, engine)
	if err != nil {
		return nil, err
	}

	for {
		needsInput, err := handler.Output(ctx, actions)
		if err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
		if state.Status == domain.StatusFinalized {
			r.Logger.Debug("application finalized", "session_id", state.SessionID)
			return state, nil
		}
		if !needsInput {
			return state, nil
		}

		if err := r.honourPacing(ctx, actions); err != nil {
			return state, r.interrupted(err)
		}

		input, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if ctx.Err() != nil {
				return state, r.interrupted(err)
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		if isExit(input) {
			return state, nil
		}

		state, actions, err = r.turn(ctx, engine, state, input)
		if err != nil {
			return state, err
		}
	}
}

func (r *Runner) turn(ctx context.Context, engine ports.Conversation, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error) {
	if r.Sessions == nil || r.SessionID == "" {
		next, actions, err := engine.Navigate(ctx, state, input)
		if err != nil {
			return state, nil, fmt.Errorf("navigation error: %w", err)
		}
		return next, actions, nil
	}

	var actions []domain.ActionRequest
	next, err := r.Sessions.Turn(ctx, r.SessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		n, acts, err := engine.Navigate(ctx, current, input)
		actions = acts
		return n, err
	})
	if err != nil {
		return state, nil, fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "step", next.Step)
	return next, actions, nil
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil, WithTextHandlerRenderer(r.Renderer))
	}
	return r.Handler
}

// resolveInitialState resumes a durable session or starts a new one.
func (r *Runner) resolveInitialState(ctx context.Context, engine ports.Conversation) (*domain.State, []domain.ActionRequest, error) {
	if r.Sessions == nil || r.SessionID == "" {
		state, actions := engine.Start(ctx, r.SessionID, r.Seed)
		return state, actions, nil
	}

	var actions []domain.ActionRequest
	state, created, err := r.Sessions.LoadOrStart(ctx, r.SessionID, func(ctx context.Context, id string) *domain.State {
		s, acts := engine.Start(ctx, id, r.Seed)
		actions = acts
		return s
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
	}
	if created {
		return state, actions, nil
	}

	r.Logger.Debug("session resumed", "session_id", r.SessionID, "step", state.Step)
	actions, _, err = engine.Render(ctx, state)
	if err != nil && !errors.Is(err, domain.ErrUnknownStep) {
		return nil, nil, fmt.Errorf("render error: %w", err)
	}
	return state, actions, nil
}

func (r *Runner) honourPacing(ctx context.Context, actions []domain.ActionRequest) error {
	for _, act := range actions {
		if act.Type != domain.ActionPace {
			continue
		}
		if req, ok := act.Payload.(domain.PaceRequest); ok && req.Delay > 0 {
			if err := r.pace(ctx, req.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) interrupted(err error) error {
	r.Logger.Debug("runner interrupted", "err", err)
	return nil
}

func isExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
