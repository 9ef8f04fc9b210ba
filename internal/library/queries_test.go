package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/log"
)

func loadedStore(t *testing.T, books []domain.Book) *Store {
	t.Helper()
	store := NewStore(&fakeGateway{books: books}, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	return store
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	store := loadedStore(t, []domain.Book{
		{ID: "1", Title: "The Go Programming Language"},
		{ID: "2", Title: "Golang Patterns"},
		{ID: "3", Title: "Rust in Action"},
	})

	got := store.Search("go")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	assert.Len(t, store.Search(""), 3)
	assert.Empty(t, store.Search("python"))
}

func TestSearchDoesNotMutateCache(t *testing.T) {
	store := loadedStore(t, []domain.Book{
		{ID: "1", Title: "Alpha"},
		{ID: "2", Title: "Beta"},
	})

	store.Search("beta")
	books := store.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "1", books[0].ID)
}

func TestSearchRankedOrdersBestFirst(t *testing.T) {
	store := loadedStore(t, []domain.Book{
		{ID: "1", Title: "Distributed Systems"},
		{ID: "2", Title: "Go Systems Programming"},
		{ID: "3", Title: "Systems"},
	})

	got := store.SearchRanked("systems")
	require.NotEmpty(t, got)
	assert.Equal(t, "3", got[0].ID) // exact title wins
}

func TestFilterByStatus(t *testing.T) {
	store := loadedStore(t, []domain.Book{
		{ID: "1", Title: "A", Status: domain.StatusReading},
		{ID: "2", Title: "B", Status: domain.StatusCompleted},
		{ID: "3", Title: "C", Status: domain.StatusReading},
	})

	got := store.FilterByStatus(domain.StatusReading)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Len(t, store.FilterByStatus(""), 3)
}

func TestStats(t *testing.T) {
	store := loadedStore(t, []domain.Book{
		{ID: "1", Status: domain.StatusReading},
		{ID: "2", Status: domain.StatusCompleted},
		{ID: "3", Status: domain.StatusNotStarted},
		{ID: "4", Status: domain.StatusReading},
	})

	st := store.Stats()
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Reading)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 1, st.NotStarted)
}
