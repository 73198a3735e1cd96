package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/pkg/adapters/memory"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runWith(t *testing.T, engine *intake.Engine, input string, opts ...Option) (*domain.State, string) {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{WithInputHandler(NewTextHandler(strings.NewReader(input), out))}, opts...)
	r := NewRunner(opts...)

	done := make(chan struct{})
	var (
		state *domain.State
		err   error
	)
	go func() {
		defer close(done)
		state, err = r.Run(t.Context(), engine)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner timed out")
	}
	require.NoError(t, err)
	return state, out.String()
}

func TestRunner_Run_BasicFlow(t *testing.T) {
	state, out := runWith(t, intake.New(), "yes\nTX\nexit\n")

	assert.Equal(t, domain.StepLanguage, state.Step)
	assert.Equal(t, "TX", *state.Application.Meta.State)
	assert.Contains(t, out, "Which state are you applying in?")
	assert.Contains(t, out, "(press enter for \"en\")")
}

func TestRunner_Run_EndOfInput(t *testing.T) {
	state, _ := runWith(t, intake.New(), "yes\n")
	assert.Equal(t, domain.StepState, state.Step)
}

func TestRunner_Run_DefaultOnEnter(t *testing.T) {
	state, _ := runWith(t, intake.New(intake.WithEntryStep(domain.StepLanguage)), "\nquit\n")
	assert.Equal(t, domain.StepAccessibility, state.Step)
	assert.Equal(t, "en", state.Application.Meta.Language)
}

func TestRunner_Run_StopsOnFinalize(t *testing.T) {
	engine := intake.New(intake.WithEntryStep(domain.StepReviewReady))
	state, out := runWith(t, engine, "yes\nyes\nthis line is never read\n")

	assert.Equal(t, domain.StatusFinalized, state.Status)
	assert.Equal(t, domain.StepDone, state.Step)
	assert.NotNil(t, state.Application.Meta.CompletedAt)
	assert.Contains(t, out, "Here is a summary of your application:")
	assert.Contains(t, out, "Your application document is ready.")
}

func TestRunner_Run_PersistsAndResumes(t *testing.T) {
	store := memory.NewStore()
	sessions := session.NewManager(store)
	opts := []Option{WithSessions(sessions), WithSessionID("applicant-1")}

	first, _ := runWith(t, intake.New(), "yes\nTX\n", opts...)
	assert.Equal(t, domain.StepLanguage, first.Step)

	saved, err := store.Load(context.Background(), "applicant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepLanguage, saved.Step)

	second, out := runWith(t, intake.New(), "es\n", opts...)
	assert.Equal(t, domain.StepAccessibility, second.Step)
	assert.Equal(t, "es", second.Application.Meta.Language)
	assert.Contains(t, out, "What language do you prefer?")
	assert.NotContains(t, out, "I'm CivicScribe", "a resumed session is not welcomed again")
}

func TestRunner_Run_HonoursPacing(t *testing.T) {
	var delays []time.Duration
	r := NewRunner(WithInputHandler(NewTextHandler(strings.NewReader("yes\nexit\n"), &bytes.Buffer{})))
	r.pace = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := r.Run(t.Context(), intake.New(intake.WithPacing(250*time.Millisecond)))
	require.NoError(t, err)
	// The welcome turn is not paced; the answered one is.
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, delays)
}

func TestRunner_Run_InterruptIsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := NewRunner(WithInputHandler(NewTextHandler(strings.NewReader(""), &bytes.Buffer{})))
	state, err := r.Run(ctx, intake.New())
	require.NoError(t, err)
	assert.Equal(t, domain.StepConsent, state.Step)
}

func TestRunner_Run_JSONMode(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRunner(WithInputHandler(NewJSONHandler(strings.NewReader("\"yes\"\nTX\n"), out)))

	state, err := r.Run(t.Context(), intake.New())
	require.NoError(t, err)
	assert.Equal(t, domain.StepLanguage, state.Step)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3, "one JSON line per turn")
	assert.Contains(t, lines[2], `"step":"language"`)
}
