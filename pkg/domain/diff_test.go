package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Run("Initial Load (Old is Nil)", func(t *testing.T) {
		s := NewState("sess-1", nil)

		diff := Diff(nil, s)
		require.NotNil(t, diff)
		assert.Equal(t, "sess-1", diff.SessionID)
		require.NotNil(t, diff.Step)
		assert.Equal(t, StepConsent, *diff.Step)
		assert.Len(t, diff.Sections, 8)
		assert.Equal(t, []StepID{StepConsent}, diff.History.Appended)
	})

	t.Run("No Changes", func(t *testing.T) {
		s := NewState("sess-1", nil)
		assert.Nil(t, Diff(s, s.Snapshot()))
	})

	t.Run("Step And Section Change", func(t *testing.T) {
		old := NewState("sess-1", nil)
		next := old.Snapshot()
		next.Step = StepLanguage
		next.History = append(next.History, StepState, StepLanguage)
		next.Application.Meta.State = Ptr("TX")

		diff := Diff(old, next)
		require.NotNil(t, diff)
		assert.Equal(t, StepLanguage, *diff.Step)
		assert.Nil(t, diff.Status)
		assert.Contains(t, diff.Sections, "meta")
		assert.NotContains(t, diff.Sections, "applicant")
		assert.Equal(t, []StepID{StepState, StepLanguage}, diff.History.Appended)
	})

	t.Run("Status Change", func(t *testing.T) {
		old := NewState("sess-1", nil)
		next := old.Snapshot()
		next.Status = StatusFinalized

		diff := Diff(old, next)
		require.NotNil(t, diff)
		assert.Equal(t, StatusFinalized, *diff.Status)
		assert.Nil(t, diff.Step)
	})
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	old := NewState("sess-1", nil)
	next := old.Snapshot()
	next.Application.Applicant.FullName = Ptr("Jane Doe")

	data, err := json.Marshal(Diff(old, next))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"applicant"`)
	assert.NotContains(t, string(data), `"step"`)
	assert.NotContains(t, string(data), `"history"`)
}

func TestSnapshot_IsDeep(t *testing.T) {
	s := NewState("sess-1", nil)
	s.Application.Household.Members = append(s.Application.Household.Members, Member{FullName: Ptr("A")})

	cp := s.Snapshot()
	*cp.Application.Household.Members[0].FullName = "B"
	cp.Application.Income = append(cp.Application.Income, IncomeItem{})

	assert.Equal(t, "A", *s.Application.Household.Members[0].FullName)
	assert.Empty(t, s.Application.Income)
}

func TestNewState_CopiesSeed(t *testing.T) {
	seed := &Application{}
	seed.Applicant.Email = Ptr("jane@example.org")

	s := NewState("sess-1", seed)
	s.Application.Applicant.Email = Ptr("other@example.org")

	assert.Equal(t, "jane@example.org", *seed.Applicant.Email)
	assert.Equal(t, DefaultLanguage, s.Application.Meta.Language)
	assert.NotNil(t, s.Application.Income)
}
