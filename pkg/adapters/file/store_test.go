package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/civicscribe/intake/pkg/adapters/file"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements StateStore
var _ ports.StateStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	state := domain.NewState("session-1", nil)
	state.Application.Applicant.FullName = domain.Ptr("Jane Doe")
	require.NoError(t, store.Save(ctx, "session-1", state))

	path := filepath.Join(dir, "session-1.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"full_name": "Jane Doe"`)

	// Overwrite keeps a single file and no temp leftovers.
	require.NoError(t, store.Save(ctx, "session-1", state))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, store.Delete(ctx, "session-1"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error.
	assert.NoError(t, store.Delete(ctx, "session-1"))
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, store.Save(ctx, id, domain.NewState(id, nil)), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, domain.ErrSessionNotFound, id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
