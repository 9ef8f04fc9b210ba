package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/folio/internal/domain"
)

const (
	// DefaultQuietPeriod is the debounce interval after the last page turn
	// before a progress write fires.
	DefaultQuietPeriod = 2 * time.Second

	writeTimeout = 10 * time.Second
)

// ProgressStore receives confirmed progress. Satisfied by *library.Store.
type ProgressStore interface {
	PatchProgress(id string, patch domain.ProgressPatch)
}

// Syncer turns a high-frequency stream of page events into low-frequency,
// non-duplicated remote writes. Events within the quiet period coalesce
// last-value-wins; per book at most one write is ever in flight, and a value
// arriving mid-write supersedes on the next cycle without an extra quiet
// delay. Only confirmed writes are propagated back into the library store.
type Syncer struct {
	writer domain.ProgressWriter
	store  ProgressStore
	logger *slog.Logger
	quiet  time.Duration
	now    func() time.Time

	mu    sync.Mutex
	books map[string]*bookState
	wg    sync.WaitGroup
}

type bookState struct {
	timer    *time.Timer
	pending  *domain.PageEvent // latest value waiting for the quiet timer
	queued   *domain.PageEvent // value that arrived while a write was in flight
	inFlight bool
	written  bool // a write has succeeded for this session
}

// NewSyncer creates a progress syncer. quiet <= 0 selects the default.
func NewSyncer(writer domain.ProgressWriter, store ProgressStore, quiet time.Duration, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Syncer{
		writer: writer,
		store:  store,
		logger: logger,
		quiet:  quiet,
		now:    time.Now,
		books:  make(map[string]*bookState),
	}
}

// Notify records the latest position for a book and (re)arms its quiet
// timer. Every call before the timer fires replaces the pending value, so
// only the last page in a burst is ever sent.
//
// A notification for page 1 with no prior write for the session is dropped:
// merely opening a book must not mark it as reading.
func (s *Syncer) Notify(event domain.PageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.books[event.BookID]
	if st == nil {
		st = &bookState{}
		s.books[event.BookID] = st
	}

	if event.Page <= 1 && !st.written && !st.inFlight && st.pending == nil && st.queued == nil {
		s.logger.Debug("still on opening page, not syncing", "id", event.BookID)
		return
	}

	ev := event
	st.pending = &ev

	if st.timer != nil {
		st.timer.Stop()
	}
	id := event.BookID
	st.timer = time.AfterFunc(s.quiet, func() { s.fire(id) })
}

// fire runs when a book's quiet timer elapses.
func (s *Syncer) fire(id string) {
	s.mu.Lock()
	st := s.books[id]
	if st == nil || st.pending == nil {
		s.mu.Unlock()
		return
	}
	st.timer = nil

	if st.inFlight {
		// Held until the current write completes; it will chain
		// immediately, the user has already stopped navigating.
		st.queued = st.pending
		st.pending = nil
		s.mu.Unlock()
		return
	}

	ev := *st.pending
	st.pending = nil
	st.inFlight = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	s.runWrites(id, ev)
}

// runWrites performs one write, then chains any value queued while it was in
// flight. For a given book the last value observed before a write starts is
// the value sent; an older value never overtakes a newer one.
func (s *Syncer) runWrites(id string, ev domain.PageEvent) {
	for {
		ok := s.write(id, ev)

		s.mu.Lock()
		st := s.books[id]
		if st == nil { // cancelled mid-write
			s.mu.Unlock()
			return
		}
		if ok {
			st.written = true
		}
		if st.queued == nil {
			st.inFlight = false
			s.mu.Unlock()
			return
		}
		ev = *st.queued
		st.queued = nil
		s.mu.Unlock()
	}
}

// write performs a single remote write and, on acknowledgment, patches the
// library cache. Failures are logged and dropped: progress sync must never
// interrupt reading, and the next page turn retries naturally.
func (s *Syncer) write(id string, ev domain.PageEvent) bool {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := s.writer.UpdateProgress(ctx, id, ev.Page, ev.TotalPages); err != nil {
		s.logger.Warn("progress write failed", "id", id, "page", ev.Page, "error", err)
		return false
	}

	progress := domain.ProgressPercent(ev.Page, ev.TotalPages)
	s.store.PatchProgress(id, domain.ProgressPatch{
		CurrentPage: ev.Page,
		TotalPages:  ev.TotalPages,
		Progress:    progress,
		Status:      domain.StatusFor(progress, true),
		LastRead:    s.now().Unix(),
	})

	s.logger.Debug("progress synced", "id", id, "page", ev.Page, "progress", progress)
	return true
}

// Flush forces an immediate send of any pending value for a book, bypassing
// the quiet timer. Called when a session closes so position is never lost.
// If a write is already in flight the pending value chains after it.
func (s *Syncer) Flush(id string) {
	s.mu.Lock()
	st := s.books[id]
	if st == nil {
		s.mu.Unlock()
		return
	}
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	if st.pending == nil {
		s.mu.Unlock()
		return
	}
	if st.inFlight {
		st.queued = st.pending
		st.pending = nil
		s.mu.Unlock()
		return
	}

	ev := *st.pending
	st.pending = nil
	st.inFlight = true
	s.mu.Unlock()

	s.runWrites(id, ev)
}

// Cancel discards pending state for a book without sending. Used only on
// hard errors, not on normal navigation-away.
func (s *Syncer) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.books[id]
	if st == nil {
		return
	}
	if st.timer != nil {
		st.timer.Stop()
	}
	delete(s.books, id)
}

// Close flushes every book with pending state and waits for in-flight
// writes to finish.
func (s *Syncer) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Flush(id)
	}
	s.wg.Wait()
}
