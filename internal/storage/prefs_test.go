package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/playlistctl/internal/browse"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestPrefsStore_ViewState(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "prefs.db")

	store, err := OpenPrefsStore(dbPath)
	require.NoError(t, err, "Failed to open prefs store")

	_, found, err := store.LoadViewState()
	require.NoError(t, err)
	require.False(t, found, "A new store should have no saved state")

	state := browse.ViewState{
		SearchTerm:  "rock",
		Sort:        browse.Sort{Field: browse.FieldSongs, Direction: browse.Desc},
		PageSize:    25,
		CurrentPage: 3,
	}
	require.NoError(t, store.SaveViewState(state))

	loaded, found, err := store.LoadViewState()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "rock", loaded.SearchTerm)
	require.Equal(t, "songs-desc", loaded.Sort.String())
	require.Equal(t, 25, loaded.PageSize)
	require.Zero(t, loaded.CurrentPage, "The current page should not be persisted")

	require.NoError(t, store.Close())

	reopened, err := OpenPrefsStore(dbPath)
	require.NoError(t, err, "Reopening the prefs store should work")
	defer reopened.Close()

	loaded, found, err = reopened.LoadViewState()
	require.NoError(t, err)
	require.True(t, found, "State should survive a reopen")
	require.Equal(t, 25, loaded.PageSize)

	require.NoError(t, reopened.Clear())
	_, found, err = reopened.LoadViewState()
	require.NoError(t, err)
	require.False(t, found, "Clear should remove the saved state")
}

func TestPrefsStore_CorruptValue(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs.db")
	store, err := OpenPrefsStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	err = store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewBucket).Put(listViewKey, []byte(`{"sort":"length-asc"}`))
	})
	require.NoError(t, err)

	_, _, err = store.LoadViewState()
	require.Error(t, err, "An unknown sort key should fail to load")
}

func TestOpenPrefsStore_BadPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenPrefsStore(filepath.Join(file, "prefs.db"))
	require.Error(t, err, "A path below a regular file cannot be opened")
}
