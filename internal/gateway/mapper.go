package gateway

import (
	"sort"
	"time"

	"github.com/mmcdole/folio/internal/domain"
)

// MapBooks converts wire book records to domain books
func MapBooks(dtos []bookDTO) []domain.Book {
	books := make([]domain.Book, 0, len(dtos))
	for _, d := range dtos {
		books = append(books, MapBook(d))
	}
	return books
}

// MapBook converts a single wire record to a domain book. Derived fields are
// recomputed locally rather than trusted from the wire, so the progress and
// status invariants hold regardless of what the server sent.
func MapBook(d bookDTO) domain.Book {
	book := domain.Book{
		ID:          d.ID,
		Title:       d.Title,
		FileType:    domain.FileType(d.FileType),
		FilePath:    d.FilePath,
		TotalPages:  d.TotalPages,
		CurrentPage: domain.ClampPage(d.CurrentPage, d.TotalPages),
		Category:    d.Category,
	}

	book.Progress = domain.ProgressPercent(book.CurrentPage, book.TotalPages)
	// A record that has ever been written to reads as opened; the server
	// only stores positions the reader actually reached.
	everOpened := d.LastRead != nil || d.Status == string(domain.StatusReading)
	book.Status = domain.StatusFor(book.Progress, everOpened)

	if d.LastRead != nil {
		t := time.Unix(*d.LastRead, 0)
		book.LastRead = &t
	}

	if len(d.Bookmarks) > 0 {
		book.Bookmarks = dedupeSorted(d.Bookmarks)
	}

	return book
}

// dedupeSorted returns the unique page numbers in ascending order.
func dedupeSorted(pages []int) []int {
	out := make([]int, 0, len(pages))
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
