package domain

import (
	"fmt"
	"math"
	"time"
)

// FileType identifies the document format
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeEPUB FileType = "epub"
)

// IsSupported reports whether the library can store and open this format
func (f FileType) IsSupported() bool {
	return f == FileTypePDF || f == FileTypeEPUB
}

// ReadingStatus classifies how far through a book the reader is
type ReadingStatus string

const (
	StatusNotStarted ReadingStatus = "not-started"
	StatusReading    ReadingStatus = "reading"
	StatusCompleted  ReadingStatus = "completed"
)

// Book represents one document in the library
type Book struct {
	ID          string     // Server-assigned unique identifier
	Title       string     // Display title
	FileType    FileType   // Document format
	FilePath    string     // Server-relative path to the document file
	TotalPages  int        // Page count, 0 until known
	CurrentPage int        // Last reading position, 1-based
	Progress    int        // Percent read, 0-100
	Status      ReadingStatus
	LastRead    *time.Time // Nil if never opened
	Bookmarks   []int      // Bookmarked pages, sorted ascending, unique
	Category    string     // Optional shelf label, e.g. "technical"
}

// ProgressPercent computes the percent read from a position and page count,
// always within [0, 100]. An unknown page count reads as zero progress.
func ProgressPercent(currentPage, totalPages int) int {
	if totalPages <= 0 || currentPage <= 0 {
		return 0
	}
	p := int(math.Round(float64(currentPage) / float64(totalPages) * 100))
	if p > 100 {
		p = 100
	}
	return p
}

// StatusFor derives the reading status from progress. Status is never stored
// independently: 100 percent is completed regardless of anything else, and a
// book counts as reading only once a position has actually been recorded, so
// a freshly uploaded record sitting at its default first page stays
// not-started.
func StatusFor(progress int, everOpened bool) ReadingStatus {
	if progress >= 100 {
		return StatusCompleted
	}
	if progress > 0 && everOpened {
		return StatusReading
	}
	return StatusNotStarted
}

// ClampPage bounds a page number to [1, totalPages]. An unknown page count is
// treated as a single page, so only page 1 is reachable.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// HasBookmark reports whether the page is bookmarked
func (b Book) HasBookmark(page int) bool {
	for _, p := range b.Bookmarks {
		if p == page {
			return true
		}
	}
	return false
}

// PageLabel returns the position for display, e.g. "34 / 120". An unknown
// page count renders as "--".
func (b Book) PageLabel() string {
	if b.TotalPages <= 0 {
		return fmt.Sprintf("%d / --", b.CurrentPage)
	}
	return fmt.Sprintf("%d / %d", b.CurrentPage, b.TotalPages)
}

// FormattedLastRead returns when the book was last read, in a compact
// human-readable form
func (b Book) FormattedLastRead() string {
	if b.LastRead == nil {
		return "never"
	}
	since := time.Since(*b.LastRead)
	switch {
	case since < time.Minute:
		return "just now"
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(since.Hours()))
	case since < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(since.Hours()/24))
	default:
		return b.LastRead.Format("Jan 2006")
	}
}

// CategoryIcon returns a glyph for the book's shelf label
func (b Book) CategoryIcon() string {
	switch b.Category {
	case "technical":
		return "⚙"
	case "fiction":
		return "✦"
	case "reference":
		return "❖"
	default:
		return "·"
	}
}
