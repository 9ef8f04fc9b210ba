package tui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/library"
	"github.com/mmcdole/folio/internal/log"
	"github.com/mmcdole/folio/internal/session"
	"github.com/mmcdole/folio/internal/viewer"
)

type stubGateway struct {
	books []domain.Book
}

func (g *stubGateway) ListBooks(ctx context.Context, params domain.ListParams) ([]domain.Book, error) {
	return g.books, nil
}

func (g *stubGateway) GetBook(ctx context.Context, id string) (domain.Book, error) {
	for _, b := range g.books {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Book{}, domain.ErrBookNotFound
}

func (g *stubGateway) UploadBook(ctx context.Context, file io.Reader, filename, title string) (domain.Book, error) {
	return domain.Book{}, nil
}

func (g *stubGateway) UpdateProgress(ctx context.Context, id string, currentPage, totalPages int) error {
	return nil
}

func (g *stubGateway) DeleteBook(ctx context.Context, id string) (string, error) { return id, nil }

func (g *stubGateway) FileURL(filePath string) string { return filePath }

// readerModel builds a model sitting on the reader page with an open session
// and a syncer whose quiet timer never fires on its own.
func readerModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	gw := &stubGateway{books: []domain.Book{
		{ID: "x", Title: "X", CurrentPage: 3, TotalPages: 100},
	}}
	store := library.NewStore(gw, nil, log.NullLogger())
	require.NoError(t, store.Fetch(context.Background(), domain.ListParams{}))
	syncer := session.NewSyncer(gw, store, time.Hour, log.NullLogger())

	m := NewModel(store, gw, syncer, viewer.NewLauncher("", log.NullLogger()), log.NullLogger())
	sess := session.New(store, gw, syncer, log.NullLogger())
	require.NoError(t, sess.Open(context.Background(), "x"))
	m.sess = sess
	m.view = viewReader
	return m, sess
}

func TestBackFromReaderDefersFlushToCommand(t *testing.T) {
	m, sess := readerModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next := updated.(Model)

	// The view switches immediately; the flush (a network write) runs as a
	// command, never inside the update loop
	assert.Equal(t, viewLibrary, next.view)
	assert.Nil(t, next.sess)
	require.NotNil(t, cmd)
	assert.NotEqual(t, session.StateClosed, sess.State())

	msg := cmd()
	assert.IsType(t, SessionClosedMsg{}, msg)
	assert.Equal(t, session.StateClosed, sess.State())
}

func TestQuitFromReaderDefersFlushToCommand(t *testing.T) {
	m, sess := readerModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.NotEqual(t, session.StateClosed, sess.State())

	msg := cmd()
	assert.IsType(t, tea.QuitMsg{}, msg)
	assert.Equal(t, session.StateClosed, sess.State())
}

func TestQuitFromLibraryDrainsSyncerOffLoop(t *testing.T) {
	m, _ := readerModel(t)
	m.view = viewLibrary
	m.sess = nil

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
