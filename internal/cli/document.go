package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/civicscribe/intake/internal/presentation/graph"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/export"
)

// PrintSummary writes the narrative summary of a stored session.
func PrintSummary(ctx context.Context, app *App, sessionID string, w io.Writer) error {
	state, err := app.Sessions.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	_, err = fmt.Fprintln(w, app.Engine.Summary(state))
	return err
}

// ExportDocument writes the structured document of a stored session, validated
// against the application schema.
func ExportDocument(ctx context.Context, app *App, sessionID string, format export.Format, w io.Writer) error {
	state, err := app.Sessions.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	if state.Status != domain.StatusFinalized {
		app.Logger.Warn("exporting an open draft", "session_id", sessionID, "step", state.Step)
	}
	out, err := export.Export(app.Engine.Document(state), format)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// PrintGraph writes the step graph as Mermaid. With a session id the
// session's path is highlighted.
func PrintGraph(ctx context.Context, app *App, sessionID string, w io.Writer) error {
	var overlay *graph.GraphOverlay
	if sessionID != "" {
		state, err := app.Sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("session %q: %w", sessionID, err)
		}
		overlay = graph.NewOverlay(state)
	}
	_, err := fmt.Fprint(w, graph.GenerateMermaid(app.Engine.Inspect(), domain.EntryStep, overlay))
	return err
}

// ListSessions prints stored session ids with their step and status.
func ListSessions(ctx context.Context, app *App, w io.Writer) error {
	ids, err := app.Sessions.List(ctx)
	if err != nil {
		return err
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	for _, id := range ids {
		state, err := app.Sessions.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "%s\t(unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, state.Step, state.Status)
	}
	return nil
}
