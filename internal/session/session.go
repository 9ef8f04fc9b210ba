package session

import (
	"context"
	"log/slog"

	"github.com/mmcdole/folio/internal/domain"
)

// State tracks the session lifecycle.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
	StateClosed
)

// ViewMode selects how the reader lays out pages.
type ViewMode string

const (
	ViewSingle     ViewMode = "single"
	ViewContinuous ViewMode = "continuous"
)

// BookSource provides cached book records (consumer-defined interface,
// satisfied by *library.Store).
type BookSource interface {
	Get(id string) (domain.Book, bool)
}

// BookFetcher is the slice of the gateway a session needs when the cache
// misses.
type BookFetcher interface {
	GetBook(ctx context.Context, id string) (domain.Book, error)
}

// ProgressSink consumes page events from a session. Satisfied by *Syncer.
type ProgressSink interface {
	Notify(event domain.PageEvent)
	Flush(bookID string)
	Cancel(bookID string)
}

// Session is the transient state of one currently-open document: current
// page, total pages, view mode. It never mutates the library cache
// directly; it only emits page events to its sink. Methods are meant to be
// called from a single event loop.
type Session struct {
	source  BookSource
	fetcher BookFetcher
	sink    ProgressSink
	logger  *slog.Logger

	state      State
	book       domain.Book
	err        error
	pageNumber int
	totalPages int
	viewMode   ViewMode
}

// New creates a session in the Loading state.
func New(source BookSource, fetcher BookFetcher, sink ProgressSink, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		source:   source,
		fetcher:  fetcher,
		sink:     sink,
		logger:   logger,
		state:    StateLoading,
		viewMode: ViewSingle,
	}
}

// Open seeds the session from the cached record, falling back to a remote
// fetch when the cache misses. On failure the session lands in StateError;
// opening is not retried automatically.
func (s *Session) Open(ctx context.Context, bookID string) error {
	book, ok := s.source.Get(bookID)
	if !ok {
		var err error
		book, err = s.fetcher.GetBook(ctx, bookID)
		if err != nil {
			s.logger.Error("failed to open book", "id", bookID, "error", err)
			s.state = StateError
			s.err = err
			return err
		}
	}

	s.book = book
	s.pageNumber = book.CurrentPage
	if s.pageNumber < 1 {
		s.pageNumber = 1
	}
	// 0 until the renderer reports the true count.
	s.totalPages = book.TotalPages
	s.state = StateReady

	s.logger.Info("opened book", "id", book.ID, "page", s.pageNumber, "totalPages", s.totalPages)
	return nil
}

// ReportPageCount records the authoritative total once the external
// renderer determines it. A previously out-of-range seed position is
// clamped; navigation and view-mode controls become meaningful from here.
func (s *Session) ReportPageCount(n int) {
	if s.state != StateReady || n <= 0 {
		return
	}
	s.totalPages = n
	s.pageNumber = domain.ClampPage(s.pageNumber, n)
	s.logger.Debug("page count reported", "id", s.book.ID, "totalPages", n)
}

// GoTo navigates to a page, clamped to the document extent. While the total
// is unknown only page 1 is reachable, so any other request is a no-op. A
// page event is emitted only when the clamped value actually changes the
// position.
func (s *Session) GoTo(page int) {
	if s.state != StateReady {
		return
	}
	if s.totalPages <= 0 && page != 1 {
		return
	}

	clamped := domain.ClampPage(page, s.totalPages)
	if clamped == s.pageNumber {
		return
	}

	s.pageNumber = clamped
	s.sink.Notify(domain.PageEvent{
		BookID:     s.book.ID,
		Page:       clamped,
		TotalPages: s.totalPages,
	})
}

// Next advances one page.
func (s *Session) Next() { s.GoTo(s.pageNumber + 1) }

// Prev goes back one page.
func (s *Session) Prev() { s.GoTo(s.pageNumber - 1) }

// SetViewMode switches between single-page and continuous layout. Rejected
// while the total is unknown: per-page controls are meaningless without an
// extent.
func (s *Session) SetViewMode(mode ViewMode) {
	if s.state != StateReady || s.totalPages <= 0 {
		return
	}
	if mode != ViewSingle && mode != ViewContinuous {
		return
	}
	s.viewMode = mode
}

// ToggleViewMode flips between the two layouts.
func (s *Session) ToggleViewMode() {
	if s.viewMode == ViewSingle {
		s.SetViewMode(ViewContinuous)
	} else {
		s.SetViewMode(ViewSingle)
	}
}

// Close ends the session, flushing any pending progress so the reading
// position is never lost on navigation-away.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	if s.state == StateReady {
		s.sink.Flush(s.book.ID)
	}
	s.state = StateClosed
}

// Abort ends the session discarding pending progress, used on hard errors
// only.
func (s *Session) Abort() {
	if s.state == StateClosed {
		return
	}
	if s.state == StateReady {
		s.sink.Cancel(s.book.ID)
	}
	s.state = StateClosed
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Err returns the open failure, if any.
func (s *Session) Err() error { return s.err }

// Book returns the record the session was seeded from.
func (s *Session) Book() domain.Book { return s.book }

// Page returns the current 1-based page.
func (s *Session) Page() int { return s.pageNumber }

// TotalPages returns the known extent, 0 while unknown.
func (s *Session) TotalPages() int { return s.totalPages }

// ViewMode returns the current layout mode.
func (s *Session) ViewMode() ViewMode { return s.viewMode }
