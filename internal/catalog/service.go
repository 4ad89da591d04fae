// internal/catalog/service.go
package catalog

import (
	"context"
	"io"
	"iter"

	"librarium/internal/book"
	"librarium/internal/ledger"
)

// Service defines the interface for the catalog service. Mutating
// operations record an event in the catalog's ledger; all operations are
// synchronous and complete without blocking.
type Service interface {
	// Add inserts a record keyed by its normalized title. It fails with
	// ErrDuplicateTitle when the title is already present.
	Add(ctx context.Context, rec book.Record) error

	// AddOrMerge inserts a record, or merges its copy count into the record
	// already stored under the same normalized title.
	AddOrMerge(ctx context.Context, rec book.Record) error

	// AddBook constructs a standard book and adds it.
	AddBook(ctx context.Context, title, author string, year, copies int) (book.Record, error)

	// Remove deletes a record by title. It fails with ErrNotFound when absent.
	Remove(ctx context.Context, title string) error

	// FindByTitle returns the record stored under the normalized title.
	FindByTitle(title string) (book.Record, bool)

	// Search returns a fresh lazy sequence of the records matching all
	// supplied criteria, in insertion order.
	Search(ctx context.Context, q Query) iter.Seq[book.Record]

	// Borrow takes one copy of a title. It fails with ErrNotFound when the
	// title is absent and with book.ErrOutOfStock when no copies are left.
	Borrow(ctx context.Context, title string) error

	// Return hands one copy of a title back. It fails with ErrNotFound when
	// the title is absent. No upper bound is enforced on copies; returning
	// more copies than were ever borrowed is accepted. Known gap.
	Return(ctx context.Context, title string) error

	// Contains reports whether a title is in the catalog, case-insensitively.
	Contains(title string) bool

	// Len returns the number of distinct titles, not total copies.
	Len() int

	// All returns a fresh lazy sequence of every record in insertion order.
	All() iter.Seq[book.Record]

	// At returns the i-th record by insertion order. It fails with
	// ErrIndexOutOfRange when i is outside [0, Len()).
	At(i int) (book.Record, error)

	// BorrowHistory projects the borrow events out of the ledger, oldest first.
	BorrowHistory(ctx context.Context) ([]HistoryEntry, error)

	// History returns the full activity trail, oldest first.
	History(ctx context.Context) []ledger.Event

	// ExportJSON renders the catalog and its records as a JSON document.
	ExportJSON(ctx context.Context) ([]byte, error)

	Name() string
	Address() string
	String() string

	// PrintAll writes each record's display string to w, one per line. It
	// and PrintInfo are the only operations here that perform output.
	PrintAll(w io.Writer)

	// PrintInfo writes a banner with the catalog's name, address, size and
	// records to w.
	PrintInfo(w io.Writer)
}
