package middleware_test

import (
	"context"
	"testing"

	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewPIIMiddleware(middleware.DefaultPIIFields)(underlyingStore)

	ctx := context.Background()
	sessionID := "pii-session"
	state := domain.NewState(sessionID, nil)
	app := state.Application
	app.Meta.State = domain.Ptr("TX")
	app.Applicant.FullName = domain.Ptr("Jane Doe")
	app.Applicant.Phone = domain.Ptr("5125550100")
	app.Applicant.Address.Street = domain.Ptr("1 Main St")
	app.Applicant.Address.City = domain.Ptr("Austin")
	app.Household.Size = domain.Ptr(2)
	app.Household.Members = append(app.Household.Members, domain.Member{
		FullName: domain.Ptr("Sam Doe"), Relationship: domain.Ptr("child"),
	})
	state.Pending.Member = &domain.MemberDraft{FullName: domain.Ptr("Ann Doe")}

	require.NoError(t, secureStore.Save(ctx, sessionID, state))

	// The caller's state is not modified.
	assert.Equal(t, "Jane Doe", *state.Application.Applicant.FullName)

	stored, err := underlyingStore.Load(ctx, sessionID)
	require.NoError(t, err)
	got := stored.Application

	assert.Equal(t, middleware.Mask, *got.Applicant.FullName)
	assert.Equal(t, middleware.Mask, *got.Applicant.Phone)
	assert.Equal(t, middleware.Mask, *got.Applicant.Address.Street)
	assert.Equal(t, middleware.Mask, *got.Household.Members[0].FullName)
	assert.Equal(t, middleware.Mask, *stored.Pending.Member.FullName)

	assert.Equal(t, "Austin", *got.Applicant.Address.City)
	assert.Equal(t, "child", *got.Household.Members[0].Relationship)
	assert.Equal(t, "TX", *got.Meta.State)
	assert.Equal(t, 2, *got.Household.Size)
	assert.Nil(t, got.Applicant.Email, "null fields stay null")
	assert.Equal(t, state.Step, stored.Step)
}

func TestChain_Order(t *testing.T) {
	underlyingStore := NewMockStore()
	key := make([]byte, 32)
	store := middleware.Chain(underlyingStore,
		middleware.NewPIIMiddleware(middleware.DefaultPIIFields),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	ctx := context.Background()
	state := domain.NewState("c", nil)
	state.Application.Applicant.Email = domain.Ptr("jane@example.com")
	require.NoError(t, store.Save(ctx, "c", state))

	// Masked first, then sealed.
	raw, err := underlyingStore.Load(ctx, "c")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, *loaded.Application.Applicant.Email)
}
