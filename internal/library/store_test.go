package library

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/log"
)

type fakeGateway struct {
	books     []domain.Book
	listErr   error
	listCalls int

	uploadBook domain.Book
	uploadErr  error

	deletedID string
	deleteErr error
}

func (g *fakeGateway) ListBooks(ctx context.Context, params domain.ListParams) ([]domain.Book, error) {
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]domain.Book, len(g.books))
	copy(out, g.books)
	return out, nil
}

func (g *fakeGateway) GetBook(ctx context.Context, id string) (domain.Book, error) {
	for _, b := range g.books {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Book{}, domain.ErrBookNotFound
}

func (g *fakeGateway) UploadBook(ctx context.Context, file io.Reader, filename, title string) (domain.Book, error) {
	if g.uploadErr != nil {
		return domain.Book{}, g.uploadErr
	}
	return g.uploadBook, nil
}

func (g *fakeGateway) UpdateProgress(ctx context.Context, id string, currentPage, totalPages int) error {
	return nil
}

func (g *fakeGateway) DeleteBook(ctx context.Context, id string) (string, error) {
	if g.deleteErr != nil {
		return "", g.deleteErr
	}
	return g.deletedID, nil
}

func (g *fakeGateway) FileURL(filePath string) string { return filePath }

func testBooks() []domain.Book {
	return []domain.Book{
		{ID: "a", Title: "Alpha", Status: domain.StatusReading, CurrentPage: 10, TotalPages: 100, Progress: 10},
		{ID: "b", Title: "Beta", Status: domain.StatusCompleted, CurrentPage: 50, TotalPages: 50, Progress: 100},
		{ID: "c", Title: "Gamma", Status: domain.StatusNotStarted, CurrentPage: 1, TotalPages: 0},
	}
}

func TestFetchReplacesCache(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())

	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	assert.Len(t, store.Books(), 3)
	assert.True(t, store.Loaded())

	gw.books = gw.books[:1]
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	assert.Len(t, store.Books(), 1)
}

func TestFetchFailureLeavesPriorCache(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	gw.listErr = domain.ErrServerOffline
	err := store.Fetch(context.Background(), domain.ListParams{})
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	// The UI must not be left blank on a transient failure
	assert.Len(t, store.Books(), 3)
}

func TestDeleteRemovesExactlyConfirmedEntry(t *testing.T) {
	gw := &fakeGateway{books: testBooks(), deletedID: "b"}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	require.NoError(t, store.Delete(context.Background(), "b"))

	books := store.Books()
	require.Len(t, books, 2)
	// Others remain in original order
	assert.Equal(t, "a", books[0].ID)
	assert.Equal(t, "c", books[1].ID)
}

func TestDeleteFailureLeavesCacheUntouched(t *testing.T) {
	gw := &fakeGateway{books: testBooks(), deleteErr: domain.ErrServerOffline}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	err := store.Delete(context.Background(), "b")
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Len(t, store.Books(), 3)
}

func TestPatchProgressMergesFields(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	now := time.Now().Unix()
	store.PatchProgress("a", domain.ProgressPatch{
		CurrentPage: 42,
		TotalPages:  100,
		Progress:    42,
		Status:      domain.StatusReading,
		LastRead:    now,
	})

	book, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42, book.CurrentPage)
	assert.Equal(t, 42, book.Progress)
	assert.Equal(t, domain.StatusReading, book.Status)
	require.NotNil(t, book.LastRead)
	assert.Equal(t, now, book.LastRead.Unix())
}

func TestPatchProgressUnknownIDIsNoOp(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	before := store.Books()
	store.PatchProgress("ghost", domain.ProgressPatch{CurrentPage: 9})

	after := store.Books()
	require.Len(t, after, len(before))
	assert.Equal(t, before, after)
}

func TestPatchAfterDeleteDoesNotResurrect(t *testing.T) {
	gw := &fakeGateway{books: testBooks(), deletedID: "a"}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	require.NoError(t, store.Delete(context.Background(), "a"))

	store.PatchProgress("a", domain.ProgressPatch{CurrentPage: 99})

	assert.Len(t, store.Books(), 2)
	_, ok := store.Get("a")
	assert.False(t, ok)
}

func TestUploadFailurePropagatesAndCacheUnchanged(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	before := store.Books()

	gw.uploadErr = errors.New("disk full")
	_, err := store.Upload(context.Background(), strings.NewReader("x"), "new.pdf", "New")
	require.Error(t, err)
	assert.Equal(t, before, store.Books())
}

func TestUploadRefreshesFromServer(t *testing.T) {
	gw := &fakeGateway{books: testBooks(), uploadBook: domain.Book{ID: "d", Title: "Delta"}}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	// Server is the source of truth: the new entry appears only via re-fetch
	gw.books = append(gw.books, domain.Book{ID: "d", Title: "Delta", CurrentPage: 1})
	book, err := store.Upload(context.Background(), strings.NewReader("x"), "delta.pdf", "Delta")
	require.NoError(t, err)
	assert.Equal(t, "d", book.ID)

	books := store.Books()
	require.Len(t, books, 4)
	assert.Equal(t, "d", books[3].ID)
}

func TestUploadValidation(t *testing.T) {
	gw := &fakeGateway{}
	store := NewStore(gw, nil, log.NullLogger())

	_, err := store.Upload(context.Background(), strings.NewReader("x"), "notes.txt", "Notes")
	assert.ErrorIs(t, err, domain.ErrInvalidUpload)

	_, err = store.Upload(context.Background(), strings.NewReader("x"), "book.pdf", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidUpload)

	// Nothing hit the network
	assert.Equal(t, 0, gw.listCalls)
}

func TestToggleBookmark(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	store.ToggleBookmark("a", 17)
	store.ToggleBookmark("a", 3)
	book, _ := store.Get("a")
	assert.Equal(t, []int{3, 17}, book.Bookmarks)

	store.ToggleBookmark("a", 17)
	book, _ = store.Get("a")
	assert.Equal(t, []int{3}, book.Bookmarks)
}

func TestFetchKeepsLocalBookmarks(t *testing.T) {
	gw := &fakeGateway{books: testBooks()}
	store := NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	store.ToggleBookmark("a", 17)
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))

	book, _ := store.Get("a")
	assert.Equal(t, []int{17}, book.Bookmarks)
}
