package ports

import (
	"context"
	"testing"
	"time"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, nil)
		state.Step = domain.StepMemberName
		state.History = append(state.History, domain.StepMemberName)
		state.Application.Meta.State = domain.Ptr("TX")
		state.Application.Household.Size = domain.Ptr(3)
		state.Application.Expenses.Housing.RentOrMortgage = &domain.Money{Amount: 850, Frequency: domain.FrequencyMonthly}
		state.Pending.Member = &domain.MemberDraft{FullName: domain.Ptr("Ann")}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Step, loaded.Step)
		assert.Equal(t, state.History, loaded.History)
		assert.Equal(t, "TX", *loaded.Application.Meta.State)
		assert.Equal(t, 3, *loaded.Application.Household.Size)
		assert.Equal(t, state.Application.Expenses.Housing.RentOrMortgage, loaded.Application.Expenses.Housing.RentOrMortgage)
		require.NotNil(t, loaded.Pending.Member)
		assert.Equal(t, "Ann", *loaded.Pending.Member.FullName)
	})

	t.Run("Save does not alias", func(t *testing.T) {
		state := domain.NewState(sessionID, nil)
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Application.Applicant.FullName = domain.Ptr("changed after save")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Nil(t, loaded.Application.Applicant.FullName)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, nil))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, nil))
		_ = store.Save(ctx, id2, domain.NewState(id2, nil))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
