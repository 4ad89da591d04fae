// internal/catalog/domain.go
package catalog

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateTitle is returned when adding a title already in the catalog.
	ErrDuplicateTitle = errors.New("title already in catalog")

	// ErrNotFound is returned when a title is not in the catalog.
	ErrNotFound = errors.New("book not found")

	// ErrIndexOutOfRange is returned for a positional access outside the catalog.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Event type identifiers recorded in the catalog ledger.
const (
	EventBookAdded    = "BookAdded"
	EventBookRemoved  = "BookRemoved"
	EventBookBorrowed = "BookBorrowed"
	EventBookReturned = "BookReturned"
)

// BookAddedEvent is recorded when a record enters the catalog, or when a
// merge adds copies to an existing record.
type BookAddedEvent struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Copies int    `json:"copies"`
}

// BookRemovedEvent is recorded when a record leaves the catalog.
type BookRemovedEvent struct {
	Title string `json:"title"`
}

// BookBorrowedEvent is recorded when a copy is borrowed.
type BookBorrowedEvent struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// BookReturnedEvent is recorded when a copy is returned.
type BookReturnedEvent struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// HistoryEntry is one projected borrow, in borrow order. Seq is the ledger
// sequence number of the underlying event.
type HistoryEntry struct {
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Year   int       `json:"year"`
	Seq    int64     `json:"seq"`
	At     time.Time `json:"at"`
}

// YearRange bounds a search by publication year, inclusive on both ends.
type YearRange struct {
	From int
	To   int
}

// Query is the AND-combination of search criteria. Zero-valued fields are
// ignored. Author matches whole names case-insensitively; TitleContains is
// a case-insensitive substring match.
type Query struct {
	Author        string
	TitleContains string
	Years         *YearRange
}
