package tui

import "github.com/mmcdole/folio/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// BooksFetchedMsg signals that the library list has been refreshed
type BooksFetchedMsg struct{}

// BookOpenedMsg signals that a reading session reached Ready
type BookOpenedMsg struct {
	BookID string
}

// OpenFailedMsg signals that a reading session landed in the Error state
type OpenFailedMsg struct {
	BookID string
	Err    error
}

// BookDeletedMsg signals a confirmed remote delete
type BookDeletedMsg struct {
	BookID string
	Title  string
}

// BookUploadedMsg signals a completed upload and list refresh
type BookUploadedMsg struct {
	Book domain.Book
}

// ViewerLaunchedMsg signals the external viewer was started
type ViewerLaunchedMsg struct {
	Title string
}

// SessionClosedMsg signals that a reading session finished flushing its
// pending progress
type SessionClosedMsg struct{}

// TickMsg drives the loading spinner
type TickMsg struct{}
