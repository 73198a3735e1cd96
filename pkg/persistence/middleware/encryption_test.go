package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/civicscribe/intake/pkg/adapters/memory"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/persistence/middleware"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sensitiveState(id string) *domain.State {
	state := domain.NewState(id, nil)
	state.Application.Applicant.FullName = domain.Ptr("Jane Doe")
	state.Application.Applicant.SSNLast4 = domain.Ptr("-*-6789")
	return state
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	require.NoError(t, secureStore.Save(ctx, sessionID, sensitiveState(sessionID)))

	stored, err := underlyingStore.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Nil(t, stored.Application, "draft must not be stored in clear")
	assert.Empty(t, stored.History)
	assert.NotEmpty(t, stored.Sealed)
	assert.False(t, strings.Contains(stored.Sealed, "Jane"))

	loaded, err := secureStore.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", *loaded.Application.Applicant.FullName)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(memory.NewStore())
	ports.RunStateStoreContract(t, store)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"
	require.NoError(t, secureStoreOld.Save(ctx, sessionID, sensitiveState(sessionID)))

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, sessionID)
	require.NoError(t, err, "fallback key should decrypt")
	assert.Equal(t, "Jane Doe", *loaded.Application.Applicant.FullName)

	// Re-saving seals with the new key.
	require.NoError(t, secureStoreNew.Save(ctx, sessionID, loaded))
	_, err = secureStoreOld.Load(ctx, sessionID)
	assert.Error(t, err, "old key alone must not decrypt new data")
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	ctx := context.Background()
	require.NoError(t, underlyingStore.Save(ctx, "plain", sensitiveState("plain")))

	_, err := secureStore.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestDecodeKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.DecodeKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.DecodeKey("not base64!")
	assert.Error(t, err)
	_, err = middleware.DecodeKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
