package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/civicscribe/intake/pkg/adapters/memory"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	return s.Store.Load(ctx, sessionID)
}

func (s SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	return s.Store.Save(ctx, sessionID, state)
}

func start(_ context.Context, id string) *domain.State {
	return domain.NewState(id, nil)
}

func TestManager_TurnsAreSerialized(t *testing.T) {
	mgr := session.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	id := "race-test"

	_, created, err := mgr.LoadOrStart(ctx, id, start)
	require.NoError(t, err)
	require.True(t, created)

	// Each turn appends one history entry. Without serialization, read-modify-write
	// cycles overlap and updates are lost.
	const turns = 20
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Turn(ctx, id, func(_ context.Context, s *domain.State) (*domain.State, error) {
				next := s.Snapshot()
				next.History = append(next.History, domain.StepState)
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := mgr.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, final.History, turns+1)
}

func TestManager_LoadOrStart(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	first, created, err := mgr.LoadOrStart(ctx, "s1", start)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.EntryStep, first.Step)

	calls := 0
	_, created, err = mgr.LoadOrStart(ctx, "s1", func(ctx context.Context, id string) *domain.State {
		calls++
		return start(ctx, id)
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, calls)
}

func TestManager_TurnFailureDoesNotSave(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()
	_, _, err := mgr.LoadOrStart(ctx, "s1", start)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = mgr.Turn(ctx, "s1", func(_ context.Context, s *domain.State) (*domain.State, error) {
		s.Step = domain.StepDone
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStep, loaded.Step)

	_, err = mgr.Turn(ctx, "missing", func(_ context.Context, s *domain.State) (*domain.State, error) { return s, nil })
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
