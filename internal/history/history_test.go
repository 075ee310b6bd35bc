package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	store.Record(Entry{Plugin: "p.zip", Method: "ftp", Status: StatusUploaded, Duration: 1500 * time.Millisecond})
	store.Record(Entry{Plugin: "p.zip", Method: "ftp", Status: StatusFailed, Detail: "530 login incorrect", Duration: 20 * time.Millisecond})

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "530 login incorrect", entries[0].Detail)
	assert.Equal(t, 20*time.Millisecond, entries[0].Duration)
	assert.Equal(t, StatusUploaded, entries[1].Status)
	assert.Equal(t, "p.zip", entries[1].Plugin)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestRecentHonorsLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		store.Record(Entry{Plugin: "p.zip", Method: "sftp", Status: StatusUploaded})
	}

	entries, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestReset(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	store.Record(Entry{Plugin: "p.zip", Method: "ftp", Status: StatusSkipped})
	require.NoError(t, store.Reset())

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenCreatesSchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	store.Record(Entry{Plugin: "p.zip", Method: "ftp", Status: StatusUploaded})
	require.NoError(t, store.Close())

	// Reopening must see the existing rows.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
