package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStateStore(t *testing.T) {
	store := newTestStore(t)
	assert.NotEmpty(t, store.Path())
}

func TestStateStore_SetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sessions", []byte(`[{"id":"s-1"}]`)))

	value, err := store.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"s-1"}]`), value)
}

func TestStateStore_Get_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateStore_Set_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("old")))
	require.NoError(t, store.Set(ctx, "k", []byte("new")))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}

func TestStateStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateStore_Delete_MissingIsNoOp(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Delete(context.Background(), "nope"))
}

func TestStateStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStateStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u-1"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u-1"}`), value)
}

func TestStateStore_ConcurrentWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n)
			assert.NoError(t, store.Set(ctx, key, []byte(fmt.Sprintf("value-%d", n))))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		value, err := store.Get(ctx, fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		assert.Equal(t, []byte(fmt.Sprintf("value-%d", i)), value)
	}
}
