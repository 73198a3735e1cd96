package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/civicscribe/intake/internal/config"
	"github.com/civicscribe/intake/internal/logging"
	"github.com/civicscribe/intake/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from the log settings.
func createLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	return logging.NewWithFormat(w, level, cfg.Format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(w io.Writer, logger *slog.Logger, sessionID string, step domain.StepID, created, quiet bool) {
	if created {
		logger.Info("session created", "session_id", sessionID)
		if !quiet {
			printSystemMessage(w, "Session '%s' active.", sessionID)
		}
		return
	}
	logger.Info("session resumed", "session_id", sessionID, "step", step)
	if !quiet {
		printSystemMessage(w, "Resuming session '%s' at '%s'.", sessionID, step)
	}
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("enter step", "session_id", e.SessionID, "step", e.Step)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("leave step", "session_id", e.SessionID, "step", e.Step)
		},
		OnReject: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("answer held", "session_id", e.SessionID, "step", e.Step)
		},
		OnFinalize: func(ctx context.Context, e *domain.StepEvent) {
			logger.Info("application finalized", "session_id", e.SessionID)
		},
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logCompletion(w io.Writer, state *domain.State, sig os.Signal, quiet bool) {
	if quiet || state == nil {
		return
	}
	switch {
	case state.Status == domain.StatusFinalized:
		printSystemMessage(w, "Application finalized. Export it with: civicscribe export --session %s", state.SessionID)
	case sig == os.Interrupt:
		fmt.Fprintf(w, "[CTRL+C]\n")
		printSystemMessage(w, "Interrupted at '%s'. Your answers so far are saved.", state.Step)
	case sig != nil:
		fmt.Fprintln(w)
		printSystemMessage(w, "Terminated at '%s'.", state.Step)
	default:
		printSystemMessage(w, "Paused at '%s'. Resume with: civicscribe chat --session %s", state.Step, state.SessionID)
	}
}
