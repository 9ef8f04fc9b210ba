package domain

import "errors"

// Sentinel errors for remote operations
var (
	// ErrBookNotFound indicates the backend has no book with the given id
	ErrBookNotFound = errors.New("book not found")

	// ErrServerOffline indicates the library server is unreachable
	ErrServerOffline = errors.New("library server is unreachable")

	// ErrUnauthorized indicates the request was rejected with 401; the
	// caller should force a re-authentication flow
	ErrUnauthorized = errors.New("authentication token is invalid")

	// ErrInvalidUpload indicates a malformed upload (unsupported file type
	// or missing title), detected before any network call
	ErrInvalidUpload = errors.New("invalid upload")
)
