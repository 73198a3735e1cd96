package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/presentation/tui"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/runner"
	"github.com/google/uuid"
)

// RunChat executes one conversation on the terminal (or JSON-lines pipe) and
// persists it through the configured store.
func RunChat(ctx context.Context, app *App, opts ChatOptions) (*domain.State, error) {
	opts.defaults()
	quiet := opts.JSON

	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	} else if opts.Fresh {
		if err := app.Sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to reset session: %w", err)
		}
	}

	if !quiet && tui.IsTerminal(opts.Out) {
		tui.PrintBanner(opts.Out, strings.TrimSpace(intake.Version))
	}

	_, err := app.Sessions.Load(ctx, opts.SessionID)
	created := errors.Is(err, domain.ErrSessionNotFound)
	if err != nil && !created {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if created {
		logSessionStatus(opts.Out, app.Logger, opts.SessionID, "", true, quiet)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		handler = runner.NewTextHandler(opts.In, opts.Out, runner.WithTextHandlerRenderer(tui.RendererFor(opts.Out)))
	}

	r := runner.NewRunner(
		runner.WithLogger(app.Logger),
		runner.WithSessions(app.Sessions),
		runner.WithSessionID(opts.SessionID),
		runner.WithSeed(opts.Seed),
		runner.WithInputHandler(handler),
	)

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	state, runErr := r.Run(sigCtx, app.Engine)
	if state != nil && !created {
		app.Logger.Info("session resumed", "session_id", opts.SessionID, "step", state.Step)
	}
	logCompletion(opts.Out, state, sigCtx.Signal(), quiet)

	return state, handleExecutionError(runErr)
}
