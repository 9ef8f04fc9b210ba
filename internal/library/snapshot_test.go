package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/log"
)

func TestSnapshotRoundTrip(t *testing.T) {
	snap, err := OpenSnapshot(t.TempDir(), "http://server.test")
	require.NoError(t, err)
	defer snap.Close()

	lastRead := time.Unix(1700000000, 0)
	books := []domain.Book{
		{ID: "a", Title: "Alpha", FileType: domain.FileTypePDF, CurrentPage: 10, TotalPages: 100, Progress: 10, Status: domain.StatusReading, LastRead: &lastRead, Bookmarks: []int{3, 17}},
		{ID: "b", Title: "Beta", FileType: domain.FileTypeEPUB, CurrentPage: 1},
	}

	require.NoError(t, snap.Save(books))

	got, ok := snap.Load()
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID) // server order preserved
	assert.Equal(t, []int{3, 17}, got[0].Bookmarks)
	assert.Equal(t, domain.StatusReading, got[0].Status)
}

func TestSnapshotLoadEmpty(t *testing.T) {
	snap, err := OpenSnapshot(t.TempDir(), "http://server.test")
	require.NoError(t, err)
	defer snap.Close()

	_, ok := snap.Load()
	assert.False(t, ok)
}

func TestSnapshotClear(t *testing.T) {
	snap, err := OpenSnapshot(t.TempDir(), "http://server.test")
	require.NoError(t, err)
	defer snap.Close()

	require.NoError(t, snap.Save([]domain.Book{{ID: "a"}}))
	require.NoError(t, snap.Clear())

	_, ok := snap.Load()
	assert.False(t, ok)
}

func TestStoreRestoreFromSnapshot(t *testing.T) {
	dir := t.TempDir()

	snap, err := OpenSnapshot(dir, "http://server.test")
	require.NoError(t, err)
	require.NoError(t, snap.Save([]domain.Book{{ID: "a", Title: "Alpha"}}))
	require.NoError(t, snap.Close())

	snap, err = OpenSnapshot(dir, "http://server.test")
	require.NoError(t, err)
	defer snap.Close()

	store := NewStore(&fakeGateway{}, snap, log.NullLogger())
	store.Restore()

	assert.True(t, store.Loaded())
	assert.Len(t, store.Books(), 1)
}
