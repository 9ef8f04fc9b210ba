package library

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/folio/internal/domain"
)

// Stats summarizes the cached list for the library footer.
type Stats struct {
	Total      int
	Reading    int
	Completed  int
	NotStarted int
}

// Search returns the cached books whose title contains the query,
// case-insensitive, in server order. An empty query returns everything.
func (s *Store) Search(query string) []domain.Book {
	books := s.Books()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return books
	}

	out := books[:0]
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) {
			out = append(out, b)
		}
	}
	return out
}

// SearchRanked returns fuzzy-matched books ordered best-first, for the
// search overlay where typo tolerance beats strict substring matching.
func (s *Store) SearchRanked(query string) []domain.Book {
	books := s.Books()
	query = strings.TrimSpace(query)
	if query == "" {
		return books
	}

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)

	out := make([]domain.Book, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, books[r.OriginalIndex])
	}
	return out
}

// FilterByStatus returns the cached books with the given status, in server
// order. An empty status returns everything.
func (s *Store) FilterByStatus(status domain.ReadingStatus) []domain.Book {
	books := s.Books()
	if status == "" {
		return books
	}

	out := books[:0]
	for _, b := range books {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// Stats derives list counts by status.
func (s *Store) Stats() Stats {
	var st Stats
	for _, b := range s.Books() {
		st.Total++
		switch b.Status {
		case domain.StatusReading:
			st.Reading++
		case domain.StatusCompleted:
			st.Completed++
		default:
			st.NotStarted++
		}
	}
	return st
}
