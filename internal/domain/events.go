package domain

// PageEvent is emitted by a document session on every successful page
// transition. It is the only coupling between a session and the syncer.
type PageEvent struct {
	BookID     string
	Page       int
	TotalPages int
}
