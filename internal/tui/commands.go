package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/library"
	"github.com/mmcdole/folio/internal/session"
	"github.com/mmcdole/folio/internal/viewer"
)

// Command factories for async operations

// FetchBooksCmd refreshes the library list from the server
func FetchBooksCmd(store *library.Store, params domain.ListParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := store.Fetch(ctx, params); err != nil {
			return ErrMsg{Err: err, Context: "fetching library"}
		}
		return BooksFetchedMsg{}
	}
}

// OpenBookCmd opens a reading session for a book
func OpenBookCmd(sess *session.Session, bookID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sess.Open(ctx, bookID); err != nil {
			return OpenFailedMsg{BookID: bookID, Err: err}
		}
		return BookOpenedMsg{BookID: bookID}
	}
}

// DeleteBookCmd deletes a book remotely and from the cache
func DeleteBookCmd(store *library.Store, bookID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := store.Delete(ctx, bookID); err != nil {
			return ErrMsg{Err: err, Context: "deleting book"}
		}
		return BookDeletedMsg{BookID: bookID, Title: title}
	}
}

// UploadBookCmd uploads a local file, deriving the title from the filename
// when none is given
func UploadBookCmd(store *library.Store, path, title string) tea.Cmd {
	return func() tea.Msg {
		if title == "" {
			base := filepath.Base(path)
			title = base[:len(base)-len(filepath.Ext(base))]
		}

		f, err := os.Open(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "opening file"}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		book, err := store.Upload(ctx, f, filepath.Base(path), title)
		if err != nil {
			return ErrMsg{Err: err, Context: "uploading"}
		}
		return BookUploadedMsg{Book: book}
	}
}

// OpenViewerCmd hands the document to the external viewer
func OpenViewerCmd(launcher *viewer.Launcher, gateway domain.Gateway, book domain.Book) tea.Cmd {
	return func() tea.Msg {
		url := gateway.FileURL(book.FilePath)
		if err := launcher.Open(url, book.FileType); err != nil {
			return ErrMsg{Err: err, Context: "launching viewer"}
		}
		return ViewerLaunchedMsg{Title: book.Title}
	}
}

// CloseSessionCmd closes a reading session off the update loop. Flushing
// pending progress performs a network write, which must not stall key
// handling.
func CloseSessionCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		sess.Close()
		return SessionClosedMsg{}
	}
}

// ShutdownCmd flushes everything still pending and quits the program.
func ShutdownCmd(sess *session.Session, syncer *session.Syncer) tea.Cmd {
	return func() tea.Msg {
		if sess != nil {
			sess.Close()
		}
		syncer.Close()
		return tea.QuitMsg{}
	}
}

// TickCmd drives the spinner animation
func TickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
