package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
)

func TestNewStateStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewStateStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state.toml"), store.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStateStore_SetGet(t *testing.T) {
	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user", []byte(`{"id":"u-1"}`)))

	value, err := store.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u-1"}`), value)
}

func TestStateStore_Get_Missing(t *testing.T) {
	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStateStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "sessions", []byte(`[{"id":"s-1"}]`)))
	require.NoError(t, store.Set(ctx, "active_session_id", []byte("s-1")))

	reopened, err := NewStateStore(dir)
	require.NoError(t, err)

	value, err := reopened.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"s-1"}]`), value)

	value, err = reopened.Get(ctx, "active_session_id")
	require.NoError(t, err)
	assert.Equal(t, []byte("s-1"), value)
}

func TestStateStore_Delete(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStateStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deletion persists too.
	reopened, err := NewStateStore(dir)
	require.NoError(t, err)
	_, err = reopened.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStateStore_Delete_MissingIsNoOp(t *testing.T) {
	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), "nope"))
}

func TestStateStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on Windows")
	}

	store, err := NewStateStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStateStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.toml"), []byte("not [valid toml"), 0600))

	_, err := NewStateStore(dir)
	assert.Error(t, err)
}
