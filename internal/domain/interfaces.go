package domain

import (
	"context"
	"io"
)

// ListParams narrows a book list request.
type ListParams struct {
	Search string        // Title substring filter, server-side
	Status ReadingStatus // Empty means all
}

// ProgressPatch carries the confirmed fields merged into a cached book
// after a successful progress write.
type ProgressPatch struct {
	CurrentPage int
	TotalPages  int
	Progress    int
	Status      ReadingStatus
	LastRead    int64 // Unix seconds
}

// Gateway is the only surface that talks to the library backend. Pure
// request/response mapping with auth-token attachment; no business logic,
// no retries.
type Gateway interface {
	ListBooks(ctx context.Context, params ListParams) ([]Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	UploadBook(ctx context.Context, file io.Reader, filename, title string) (Book, error)
	UpdateProgress(ctx context.Context, id string, currentPage, totalPages int) error
	DeleteBook(ctx context.Context, id string) (deletedID string, err error)

	// FileURL resolves the static document URL for a server-relative
	// file path, outside the JSON contract.
	FileURL(filePath string) string
}

// ProgressWriter is the slice of Gateway the progress syncer needs.
type ProgressWriter interface {
	UpdateProgress(ctx context.Context, id string, currentPage, totalPages int) error
}
