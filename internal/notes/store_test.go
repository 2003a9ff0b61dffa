package notes

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "notes.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "build", "use make release"))
	got, err := store.Get(ctx, "build")
	require.NoError(t, err)
	require.Equal(t, "use make release", got)
}

func TestSetOverwritesExistingKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "two", got)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetMissingKey(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetRejectsEmptyKey(t *testing.T) {
	store, _ := newTestStore(t)
	require.Error(t, store.Set(context.Background(), "", "value"))
}

func TestAllOrdersByKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "zebra", "z"))
	require.NoError(t, store.Set(ctx, "alpha", "a"))
	require.NoError(t, store.Set(ctx, "mid", "m"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	keys := make([]string, len(all))
	for i, n := range all {
		keys[i] = n.Key
	}
	require.Equal(t, []string{"alpha", "mid", "zebra"}, keys)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestNotesSurviveReopen(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "persist", "still here"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "persist")
	require.NoError(t, err)
	require.Equal(t, "still here", got)
}
