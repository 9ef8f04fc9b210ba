package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/folio/internal/domain"
)

// Store is the single source of truth for the book list as seen by the UI.
// It holds a read-through cache of the remote list; the cache is mutated
// only through the named entry points below (Fetch, Upload, Delete,
// PatchProgress, ToggleBookmark).
type Store struct {
	gateway  domain.Gateway
	snapshot *Snapshot // nil disables local persistence
	logger   *slog.Logger

	mu     sync.RWMutex
	books  []domain.Book
	loaded bool // true once any fetch or snapshot restore succeeded
}

// NewStore creates a library store. snapshot may be nil.
func NewStore(gateway domain.Gateway, snapshot *Snapshot, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{gateway: gateway, snapshot: snapshot, logger: logger}
}

// Restore seeds the cache from the local snapshot so the list renders
// before the first fetch completes. Missing snapshot is not an error.
func (s *Store) Restore() {
	if s.snapshot == nil {
		return
	}
	books, ok := s.snapshot.Load()
	if !ok {
		return
	}

	s.mu.Lock()
	s.books = books
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("restored library from snapshot", "count", len(books))
}

// Fetch replaces the cached list with the server's response. On failure the
// prior cache is left intact so a transient error never blanks the UI.
func (s *Store) Fetch(ctx context.Context, params domain.ListParams) error {
	books, err := s.gateway.ListBooks(ctx, params)
	if err != nil {
		s.logger.Error("failed to fetch books", "error", err)
		return err
	}

	s.mu.Lock()
	s.books = mergeLocalBookmarks(s.books, books)
	s.loaded = true
	s.mu.Unlock()

	s.persist()
	s.logger.Debug("fetched books", "count", len(books))
	return nil
}

// Upload sends a document and refreshes the list from the server. No
// optimistic placeholder is inserted: the server owns every derived field
// (id, initial status, page count), so the list only changes after a
// successful re-fetch. Failures propagate to the caller with the cache
// untouched.
func (s *Store) Upload(ctx context.Context, file io.Reader, filename, title string) (domain.Book, error) {
	if err := ValidateUpload(filename, title); err != nil {
		return domain.Book{}, err
	}

	book, err := s.gateway.UploadBook(ctx, file, filename, title)
	if err != nil {
		s.logger.Error("upload failed", "title", title, "error", err)
		return domain.Book{}, err
	}

	s.logger.Info("uploaded book", "id", book.ID, "title", book.Title)

	if err := s.Fetch(ctx, domain.ListParams{}); err != nil {
		// The upload itself succeeded; the next fetch will pick it up.
		s.logger.Warn("post-upload refresh failed", "error", err)
	}
	return book, nil
}

// Delete removes a book remotely, then drops exactly the entry whose id the
// server confirmed deleting. On failure the cache is untouched and the
// error surfaces to the caller.
func (s *Store) Delete(ctx context.Context, id string) error {
	deletedID, err := s.gateway.DeleteBook(ctx, id)
	if err != nil {
		s.logger.Error("delete failed", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	for i, b := range s.books {
		if b.ID == deletedID {
			s.books = append(s.books[:i], s.books[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.persist()
	s.logger.Info("deleted book", "id", deletedID)
	return nil
}

// PatchProgress merges confirmed progress fields into the cached entry.
// It is the only mutation path the syncer uses, and only after a remote
// acknowledgment. An id absent from the cache (deleted or cleared since the
// session opened) is a safe no-op, never a resurrection.
func (s *Store) PatchProgress(id string, patch domain.ProgressPatch) {
	s.mu.Lock()
	patched := false
	for i := range s.books {
		if s.books[i].ID != id {
			continue
		}
		s.books[i].CurrentPage = patch.CurrentPage
		if patch.TotalPages > 0 {
			s.books[i].TotalPages = patch.TotalPages
		}
		s.books[i].Progress = patch.Progress
		s.books[i].Status = patch.Status
		t := time.Unix(patch.LastRead, 0)
		s.books[i].LastRead = &t
		patched = true
		break
	}
	s.mu.Unlock()

	if !patched {
		s.logger.Debug("progress patch for unknown book ignored", "id", id)
		return
	}
	s.persist()
}

// ToggleBookmark adds or removes a bookmarked page. Bookmarks are local:
// the backend has no bookmark endpoint, so they live in the snapshot only.
func (s *Store) ToggleBookmark(id string, page int) {
	s.mu.Lock()
	for i := range s.books {
		if s.books[i].ID != id {
			continue
		}
		marks := s.books[i].Bookmarks
		removed := false
		for j, p := range marks {
			if p == page {
				marks = append(marks[:j], marks[j+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			marks = append(marks, page)
			sort.Ints(marks)
		}
		s.books[i].Bookmarks = marks
		break
	}
	s.mu.Unlock()

	s.persist()
}

// Get returns the cached book with the given id.
func (s *Store) Get(id string) (domain.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Books returns a copy of the cached list in server order.
func (s *Store) Books() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Loaded reports whether the cache has ever been populated.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) persist() {
	if s.snapshot == nil {
		return
	}
	if err := s.snapshot.Save(s.Books()); err != nil {
		s.logger.Warn("failed to persist library snapshot", "error", err)
	}
}

// ValidateUpload rejects unsupported file types and missing titles before
// any network call is made.
func ValidateUpload(filename, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidUpload)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !domain.FileType(ext).IsSupported() {
		return fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidUpload, ext)
	}
	return nil
}

// mergeLocalBookmarks carries locally-owned bookmarks across a list
// replacement; the server response never includes them.
func mergeLocalBookmarks(old, fresh []domain.Book) []domain.Book {
	if len(old) == 0 {
		return fresh
	}
	marks := make(map[string][]int, len(old))
	for _, b := range old {
		if len(b.Bookmarks) > 0 {
			marks[b.ID] = b.Bookmarks
		}
	}
	for i := range fresh {
		if len(fresh[i].Bookmarks) == 0 {
			fresh[i].Bookmarks = marks[fresh[i].ID]
		}
	}
	return fresh
}
