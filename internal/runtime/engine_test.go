package runtime_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/civicscribe/intake/internal/runtime"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newEngine(opts ...runtime.EngineOption) *runtime.Engine {
	opts = append([]runtime.EngineOption{runtime.WithClock(func() time.Time { return fixedNow })}, opts...)
	return runtime.NewEngine(opts...)
}

// drive feeds answers in order and fails if any is held.
func drive(t *testing.T, e *runtime.Engine, state *domain.State, inputs ...string) *domain.State {
	t.Helper()
	for _, in := range inputs {
		before := state.Step
		next, _, err := e.Navigate(context.Background(), state, in)
		require.NoError(t, err)
		require.NotEqual(t, before, next.Step, "answer %q held at %s", in, before)
		state = next
	}
	return state
}

func at(step domain.StepID) *domain.State {
	s := domain.NewState("test", nil)
	s.Step = step
	return s
}

func TestEngine_EndToEndScenario(t *testing.T) {
	e := newEngine()
	seed := domain.NewApplication()
	seed.Applicant.Email = domain.Ptr("jane@example.com")

	state, actions := e.Start(context.Background(), "s1", seed)
	require.Equal(t, domain.StepConsent, state.Step)
	utter := domain.Utterances(actions)
	require.Len(t, utter, 2)
	assert.Equal(t, runtime.Welcome, utter[0])

	state = drive(t, e, state, "yes", "TX", "en", "skip", "Jane Doe", "1990-05-21", "skip", "skip")

	app := state.Application
	require.NotNil(t, app.Meta.State)
	assert.Equal(t, "TX", *app.Meta.State)
	assert.Equal(t, "en", app.Meta.Language)
	assert.Nil(t, app.Meta.AccessibilityNotes)
	assert.Equal(t, "Jane Doe", *app.Applicant.FullName)
	assert.Equal(t, "1990-05-21", *app.Applicant.DOB)
	assert.Nil(t, app.Applicant.Phone)
	assert.Equal(t, "jane@example.com", *app.Applicant.Email)
	assert.Equal(t, domain.StepAddrStreet, state.Step)

	// The caller's seed is copied, never written to.
	assert.Equal(t, "jane@example.com", *seed.Applicant.Email)
	assert.Nil(t, seed.Meta.State)
}

func TestEngine_SkipAdvancesEverySlot(t *testing.T) {
	e := newEngine()
	for _, n := range e.Inspect() {
		if n.Kind != domain.NodeSlot {
			continue
		}
		t.Run(string(n.ID), func(t *testing.T) {
			for _, word := range []string{"skip", "Don't know", "dont know", "LATER"} {
				out := e.Transition(n.ID, word, domain.NewApplication(), domain.Pending{})
				assert.True(t, out.Accepted, "%q", word)
				assert.NotEqual(t, n.ID, out.Next, "%q", word)
			}
		})
	}
}

func TestEngine_SkipStoresNothing(t *testing.T) {
	e := newEngine()
	steps := []domain.StepID{
		domain.StepState, domain.StepLanguage, domain.StepAccessibility, domain.StepFullName,
		domain.StepDOB, domain.StepPhone, domain.StepEmail, domain.StepAddrZip,
		domain.StepSSNLast4, domain.StepCitizenship, domain.StepHouseholdSize,
		domain.StepHousingAmountFreq, domain.StepUtilities, domain.StepAssetCash,
		domain.StepDisability, domain.StepWorkJobLoss,
	}
	empty := domain.NewApplication()
	for _, step := range steps {
		out := e.Transition(step, "skip", empty, domain.Pending{})
		if diff := cmp.Diff(empty, out.Application); diff != "" {
			t.Errorf("skip at %s changed the draft (-want +got):\n%s", step, diff)
		}
	}
}

func TestEngine_MoneyWithoutFrequencyHolds(t *testing.T) {
	e := newEngine()
	for _, step := range []domain.StepID{
		domain.StepIncomeAmountFreq, domain.StepHousingAmountFreq,
		domain.StepCareAmountFreq, domain.StepMedicalAmountFreq,
	} {
		app := domain.NewApplication()
		first := e.Transition(step, "600", app, domain.Pending{})
		second := e.Transition(step, "600", app, domain.Pending{})

		assert.False(t, first.Accepted, step)
		assert.Equal(t, step, first.Next)
		assert.Len(t, first.Utterances, 2)
		assert.Equal(t, first, second, "re-prompt must be idempotent at %s", step)
	}
}

func TestEngine_IncomeAmountParses(t *testing.T) {
	e := newEngine()
	out := e.Transition(domain.StepIncomeAmountFreq, "$600 weekly", domain.NewApplication(), domain.Pending{Income: &domain.IncomeDraft{}})

	require.True(t, out.Accepted)
	assert.Equal(t, domain.StepIncomeHours, out.Next)
	require.NotNil(t, out.Pending.Income)
	assert.Equal(t, 600.0, *out.Pending.Income.GrossAmount)
	assert.Equal(t, domain.FrequencyWeekly, *out.Pending.Income.Frequency)
}

func TestEngine_IncomeHoursInText(t *testing.T) {
	e := newEngine()
	for in, want := range map[string]float64{"40": 40, "32 hours": 32, "about 37.5 a week": 37.5} {
		out := e.Transition(domain.StepIncomeHours, in, domain.NewApplication(), domain.Pending{Income: &domain.IncomeDraft{}})
		require.True(t, out.Accepted, in)
		require.NotNil(t, out.Pending.Income.HoursPerWeek, in)
		assert.Equal(t, want, *out.Pending.Income.HoursPerWeek, in)
	}

	out := e.Transition(domain.StepIncomeHours, "24/7", domain.NewApplication(), domain.Pending{Income: &domain.IncomeDraft{}})
	assert.False(t, out.Accepted)
	assert.Equal(t, domain.StepIncomeHours, out.Next)
}

func TestEngine_DeclarationSkipRecordsFalse(t *testing.T) {
	e := newEngine()
	app := domain.NewApplication()
	app.Declarations.ConsentToShare = true
	app.Declarations.AttestationReviewed = true

	out := e.Transition(domain.StepConsentShare, "skip", app, domain.Pending{})
	require.True(t, out.Accepted)
	assert.Equal(t, domain.StepAttestation, out.Next)
	assert.False(t, out.Application.Declarations.ConsentToShare)

	out = e.Transition(domain.StepAttestation, "skip", out.Application, domain.Pending{})
	require.True(t, out.Accepted)
	assert.Equal(t, domain.StepReviewReady, out.Next)
	assert.False(t, out.Application.Declarations.AttestationReviewed)
}

func TestEngine_HouseholdSizeBounds(t *testing.T) {
	e := newEngine()
	tests := []struct {
		input  string
		accept bool
	}{
		{"0", false},
		{"21", false},
		{"three", false},
		{"", false},
		{"1", true},
		{"20", true},
		{" 4 ", true},
	}
	for _, tt := range tests {
		out := e.Transition(domain.StepHouseholdSize, tt.input, domain.NewApplication(), domain.Pending{})
		assert.Equal(t, tt.accept, out.Accepted, "input %q", tt.input)
		if tt.accept {
			assert.Equal(t, domain.StepMemberGate, out.Next)
			assert.NotNil(t, out.Application.Household.Size)
		} else {
			assert.Equal(t, domain.StepHouseholdSize, out.Next)
		}
	}
}

func TestEngine_SSNMasking(t *testing.T) {
	e := newEngine()

	out := e.Transition(domain.StepSSNLast4, "6789", domain.NewApplication(), domain.Pending{})
	require.True(t, out.Accepted)
	got := *out.Application.Applicant.SSNLast4
	assert.Equal(t, "-*-6789", got)

	for _, bad := range []string{"123-45-6789", "123456789", "12a4", "123"} {
		out := e.Transition(domain.StepSSNLast4, bad, domain.NewApplication(), domain.Pending{})
		assert.False(t, out.Accepted, bad)
		assert.Nil(t, out.Application.Applicant.SSNLast4)
	}
}

func TestEngine_MemberLoop(t *testing.T) {
	e := newEngine()
	state := at(domain.StepMemberGate)

	names := []string{"Ann Doe", "Bob Doe", "Cy Doe"}
	for i, name := range names {
		state = drive(t, e, state, "yes", name, "Child", fmt.Sprintf("2015-0%d-01", i+1))
		assert.Equal(t, domain.StepMemberGate, state.Step)
		assert.Nil(t, state.Pending.Member, "draft must be cleared after commit")
	}
	state = drive(t, e, state, "no")
	assert.Equal(t, domain.StepIncomeGate, state.Step)

	members := state.Application.Household.Members
	require.Len(t, members, len(names))
	for i, m := range members {
		assert.Equal(t, names[i], *m.FullName)
		assert.Equal(t, "child", *m.Relationship)
		assert.Equal(t, fmt.Sprintf("2015-0%d-01", i+1), *m.DOB)
	}
}

func TestEngine_LoopsCommitN(t *testing.T) {
	e := newEngine()
	tests := []struct {
		name  string
		gate  domain.StepID
		exit  domain.StepID
		steps []string
		count func(*domain.Application) int
	}{
		{
			name: "income", gate: domain.StepIncomeGate, exit: domain.StepHousingAmountFreq,
			steps: []string{"me", "wages", "Acme", "$600 weekly", "40", "2024-01-15"},
			count: func(a *domain.Application) int { return len(a.Income) },
		},
		{
			name: "care", gate: domain.StepCareGate, exit: domain.StepMedicalGate,
			steps: []string{"Sam", "$200 monthly"},
			count: func(a *domain.Application) int { return len(a.Expenses.Care) },
		},
		{
			name: "medical", gate: domain.StepMedicalGate, exit: domain.StepAssetsOptIn,
			steps: []string{"me", "$45.50 monthly", "prescriptions"},
			count: func(a *domain.Application) int { return len(a.Expenses.Medical) },
		},
		{
			name: "vehicles", gate: domain.StepVehicleGate, exit: domain.StepWorkStudent,
			steps: []string{"2012 Honda Civic"},
			count: func(a *domain.Application) int { return len(a.Assets.Vehicles) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, n := range []int{0, 1, 3} {
				state := at(tt.gate)
				for i := 0; i < n; i++ {
					state = drive(t, e, state, append([]string{"yes"}, tt.steps...)...)
					require.Equal(t, tt.gate, state.Step)
				}
				state = drive(t, e, state, "no")
				assert.Equal(t, tt.exit, state.Step)
				assert.Equal(t, n, tt.count(state.Application))
				assert.True(t, state.Pending.Empty())
			}
		})
	}
}

func TestEngine_IncomeItemFields(t *testing.T) {
	e := newEngine()
	state := drive(t, e, at(domain.StepIncomeGate), "yes", "Jane", "self-employed", "Freelance", "$1,250.00 biweekly", "skip", "skip")
	require.Equal(t, domain.StepIncomeGate, state.Step)

	require.Len(t, state.Application.Income, 1)
	item := state.Application.Income[0]
	assert.Equal(t, "Jane", *item.Person)
	assert.Equal(t, domain.IncomeSelfEmployment, *item.Type)
	assert.Equal(t, "Freelance", *item.EmployerOrSource)
	assert.Equal(t, 1250.0, *item.GrossAmount)
	assert.Equal(t, domain.FrequencyBiweekly, *item.Frequency)
	assert.Nil(t, item.HoursPerWeek)
	assert.Nil(t, item.StartDate)
}

func TestEngine_GatePromptCountsEntities(t *testing.T) {
	e := newEngine()
	state := at(domain.StepVehicleGate)
	actions, _, err := e.Render(context.Background(), state)
	require.NoError(t, err)
	assert.Contains(t, domain.Utterances(actions)[0], "add a vehicle")

	next, acts, err := e.Navigate(context.Background(), drive(t, e, state, "yes"), "Old truck")
	require.NoError(t, err)
	utter := domain.Utterances(acts)
	assert.Equal(t, []string{"Saved vehicle #1.", "Would you like to add another vehicle? (yes/no)"}, utter)
	assert.Equal(t, domain.StepVehicleGate, next.Step)
}

func TestEngine_OptInDeclines(t *testing.T) {
	e := newEngine()

	state := drive(t, e, at(domain.StepIdentityOptIn), "no")
	assert.Equal(t, domain.StepHouseholdSize, state.Step)
	assert.Nil(t, state.Application.Applicant.Disability)
	assert.Nil(t, state.Application.Applicant.Student)
	assert.Nil(t, state.Application.Applicant.Veteran)

	state = drive(t, e, at(domain.StepAssetsOptIn), "nope")
	assert.Equal(t, domain.StepWorkStudent, state.Step)
	assert.Equal(t, domain.NewApplication().Assets, state.Application.Assets)

	state = drive(t, e, at(domain.StepIdentityOptIn), "yes", "yes", "no", "skip")
	assert.Equal(t, domain.StepHouseholdSize, state.Step)
	assert.True(t, *state.Application.Applicant.Disability)
	assert.False(t, *state.Application.Applicant.Student)
	assert.Nil(t, state.Application.Applicant.Veteran)

	state = drive(t, e, at(domain.StepAssetsOptIn), "yes", "$40", "1,200.50", "skip")
	assert.Equal(t, domain.StepVehicleGate, state.Step)
	assert.Equal(t, 40.0, *state.Application.Assets.Cash)
	assert.Equal(t, 1200.5, *state.Application.Assets.Checking)
	assert.Nil(t, state.Application.Assets.Savings)
}

func TestEngine_MailingAddress(t *testing.T) {
	e := newEngine()
	home := drive(t, e, at(domain.StepAddrStreet), "1 Main St", "none", "Austin", "tx", "78701")
	require.Equal(t, domain.StepMailingSame, home.Step)
	assert.Nil(t, home.Application.Applicant.Address.Unit)
	assert.Equal(t, "TX", *home.Application.Applicant.Address.State)

	t.Run("same skips collection", func(t *testing.T) {
		state := drive(t, e, home, "yes")
		assert.Equal(t, domain.StepSSNLast4, state.Step)
		assert.True(t, *state.Application.Applicant.MailingSame)
		assert.Nil(t, state.Application.Applicant.MailingAddress)
	})

	t.Run("skip leaves the flag null", func(t *testing.T) {
		state := drive(t, e, home, "skip")
		assert.Equal(t, domain.StepSSNLast4, state.Step)
		assert.Nil(t, state.Application.Applicant.MailingSame)
	})

	t.Run("different address defaults to residential state", func(t *testing.T) {
		state := drive(t, e, home, "no", "PO Box 9")
		require.Equal(t, domain.StepMailUnit, state.Step)
		state = drive(t, e, state, "skip", "Austin")
		require.Equal(t, domain.StepMailState, state.Step)

		actions, _, err := e.Render(context.Background(), state)
		require.NoError(t, err)
		assert.Contains(t, domain.Utterances(actions)[0], "\"same\" to use TX")
		req := actions[1].Payload.(domain.InputRequest)
		assert.Equal(t, "TX", req.Default)

		state = drive(t, e, state, "same", "78702")
		assert.Equal(t, domain.StepSSNLast4, state.Step)
		mail := state.Application.Applicant.MailingAddress
		require.NotNil(t, mail)
		assert.False(t, *state.Application.Applicant.MailingSame)
		assert.Equal(t, "PO Box 9", *mail.Street)
		assert.Nil(t, mail.Unit)
		assert.Equal(t, "TX", *mail.State)
		assert.Equal(t, "78702", *mail.Zip)
	})
}

func TestEngine_ValidationFailureRePrompts(t *testing.T) {
	e := newEngine()
	state := at(domain.StepDOB)

	next, actions, err := e.Navigate(context.Background(), state, "May 21 1990")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDOB, next.Step)
	assert.Equal(t, state.History, next.History)

	utter := domain.Utterances(actions)
	require.Len(t, utter, 2)
	assert.Contains(t, utter[0], "YYYY-MM-DD")
	assert.Equal(t, "What is your date of birth? (YYYY-MM-DD)", utter[1])

	// Calendar validity is not checked.
	next = drive(t, e, state, "2024-13-40")
	assert.Equal(t, "2024-13-40", *next.Application.Applicant.DOB)
}

func TestEngine_ConsentHolds(t *testing.T) {
	e := newEngine()
	state, _ := e.Start(context.Background(), "s", nil)

	next, actions, err := e.Navigate(context.Background(), state, "not yet")
	require.NoError(t, err)
	assert.Equal(t, domain.StepConsent, next.Step)
	assert.Contains(t, domain.Utterances(actions)[0], "ready")

	next = drive(t, e, next, "Yeah")
	assert.Equal(t, domain.StepState, next.Step)
}

func TestEngine_ReviewAndFinalize(t *testing.T) {
	e := newEngine()
	state := at(domain.StepReviewReady)
	state.Application.Meta.State = domain.Ptr("TX")

	next, actions, err := e.Navigate(context.Background(), state, "no")
	require.NoError(t, err)
	assert.Equal(t, domain.StepReviewReady, next.Step)

	next, actions, err = e.Navigate(context.Background(), next, "yes")
	require.NoError(t, err)
	require.Equal(t, domain.StepReviewConfirm, next.Step)
	utter := domain.Utterances(actions)
	assert.Contains(t, utter[0], "- State: TX")
	assert.Nil(t, next.Application.Meta.CompletedAt, "summary must not stamp the draft")

	next, _, err = e.Navigate(context.Background(), next, "yes")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDone, next.Step)
	assert.Equal(t, domain.StatusFinalized, next.Status)
	require.NotNil(t, next.Application.Meta.CompletedAt)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *next.Application.Meta.CompletedAt)

	done, actions, err := e.Navigate(context.Background(), next, "show me the Summary")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDone, done.Step)
	assert.True(t, strings.HasPrefix(domain.Utterances(actions)[0], "- State: TX"))

	done, actions, err = e.Navigate(context.Background(), done, "am I eligible?")
	require.NoError(t, err)
	assert.Equal(t, domain.StepDone, done.Step)
	assert.Equal(t, []string{runtime.Disclaimer}, domain.Utterances(actions))
}

func TestEngine_ReviewDeclineLeavesDraftOpen(t *testing.T) {
	e := newEngine()
	state := drive(t, e, at(domain.StepReviewConfirm), "no")

	assert.Equal(t, domain.StepDone, state.Step)
	assert.Equal(t, domain.StatusActive, state.Status)
	assert.Nil(t, state.Application.Meta.CompletedAt)
}

func TestEngine_UnknownStep(t *testing.T) {
	e := newEngine()

	out := e.Transition("nowhere", "hello", domain.NewApplication(), domain.Pending{})
	assert.False(t, out.Accepted)
	assert.Equal(t, domain.StepID("nowhere"), out.Next)
	assert.Equal(t, []string{runtime.Disclaimer}, out.Utterances)

	state := at("nowhere")
	next, actions, err := e.Navigate(context.Background(), state, "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.StepID("nowhere"), next.Step)
	assert.Equal(t, []string{runtime.Disclaimer}, domain.Utterances(actions))

	_, _, err = e.Render(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrUnknownStep)
}

func TestEngine_TransitionDoesNotMutateInputs(t *testing.T) {
	e := newEngine()
	app := domain.NewApplication()
	pending := domain.Pending{Member: &domain.MemberDraft{FullName: domain.Ptr("Ann")}}

	out := e.Transition(domain.StepMemberRelationship, "sister", app, pending)
	require.True(t, out.Accepted)
	assert.Nil(t, pending.Member.Relationship)
	assert.Equal(t, "sister", *out.Pending.Member.Relationship)

	state := at(domain.StepFullName)
	_, _, err := e.Navigate(context.Background(), state, "Jane")
	require.NoError(t, err)
	assert.Nil(t, state.Application.Applicant.FullName)
	assert.Equal(t, domain.StepFullName, state.Step)
}

func TestEngine_LifecycleHooksAndPacing(t *testing.T) {
	var events []domain.EventType
	record := func(_ context.Context, ev *domain.StepEvent) { events = append(events, ev.Type) }
	hooks := domain.LifecycleHooks{
		OnStepEnter: record,
		OnStepLeave: record,
		OnReject:    record,
		OnFinalize:  record,
	}
	e := newEngine(runtime.WithLifecycleHooks(hooks), runtime.WithPacing(250*time.Millisecond))

	state, _ := e.Start(context.Background(), "s", nil)
	state, actions, err := e.Navigate(context.Background(), state, "yes")
	require.NoError(t, err)

	last := actions[len(actions)-1]
	assert.Equal(t, domain.ActionPace, last.Type)
	assert.Equal(t, domain.PaceRequest{Delay: 250 * time.Millisecond}, last.Payload)

	_, _, err = e.Navigate(context.Background(), state, "Texas")
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventStepEnter, // consent on start
		domain.EventStepLeave,
		domain.EventStepEnter,
		domain.EventReject,
	}, events)

	events = nil
	_, _, err = e.Navigate(context.Background(), at(domain.StepReviewConfirm), "yes")
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventStepLeave, domain.EventStepEnter, domain.EventFinalize}, events)
}

func TestEngine_EntryStepOption(t *testing.T) {
	e := newEngine(runtime.WithEntryStep(domain.StepHouseholdSize))
	state, _ := e.Start(context.Background(), "s", nil)
	assert.Equal(t, domain.StepHouseholdSize, state.Step)
	assert.Equal(t, []domain.StepID{domain.StepHouseholdSize}, state.History)

	e = newEngine(runtime.WithEntryStep("bogus"))
	assert.Equal(t, domain.EntryStep, e.Entry())
}
