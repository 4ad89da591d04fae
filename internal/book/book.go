// internal/book/book.go
package book

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidRecord is returned when a record is constructed with bad arguments.
	ErrInvalidRecord = errors.New("invalid book record")

	// ErrOutOfStock is returned when decrementing a record that has zero copies.
	ErrOutOfStock = errors.New("no copies available")
)

// Key is the immutable identity of a record: case-folded title, author and
// year. Copies is deliberately absent; inventory is mutable state, not
// identity.
type Key struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// Normalize case-folds a title into its lookup form. Every insert, lookup
// and comparison goes through this one function.
func Normalize(title string) string {
	return strings.ToLower(title)
}

// Record is the capability set shared by all book variants.
type Record interface {
	Title() string
	Author() string
	Year() int
	Copies() int

	// Key returns the identity tuple; it never changes after construction.
	Key() Key

	// Equal compares identity only, ignoring copies.
	Equal(other Record) bool

	// DisplayName returns the variant-specific listing form.
	DisplayName() string

	// String renders "<title> - <author> (<year>) x<copies>".
	String() string

	IncrementCopies()
	DecrementCopies() error

	// AddCopies merges n additional copies into the record. Non-positive n
	// is ignored.
	AddCopies(n int)
}

// Book is a standard printed title.
type Book struct {
	title  string
	author string
	year   int
	copies int
}

// New validates the arguments and builds a standard book.
func New(title, author string, year, copies int) (*Book, error) {
	if err := validate(title, author, year, copies); err != nil {
		return nil, err
	}
	return &Book{title: title, author: author, year: year, copies: copies}, nil
}

func validate(title, author string, year, copies int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidRecord)
	}
	if strings.TrimSpace(author) == "" {
		return fmt.Errorf("%w: empty author", ErrInvalidRecord)
	}
	if year <= 0 || year > time.Now().Year()+1 {
		return fmt.Errorf("%w: implausible year %d", ErrInvalidRecord, year)
	}
	if copies < 0 {
		return fmt.Errorf("%w: negative copies %d", ErrInvalidRecord, copies)
	}
	return nil
}

func (b *Book) Title() string  { return b.title }
func (b *Book) Author() string { return b.author }
func (b *Book) Year() int      { return b.year }
func (b *Book) Copies() int    { return b.copies }

func (b *Book) Key() Key {
	return Key{Title: Normalize(b.title), Author: b.author, Year: b.year}
}

func (b *Book) Equal(other Record) bool {
	return other != nil && b.Key() == other.Key()
}

func (b *Book) DisplayName() string { return b.title }

func (b *Book) String() string {
	return fmt.Sprintf("%s - %s (%d) x%d", b.title, b.author, b.year, b.copies)
}

// IncrementCopies adds one copy. No upper bound is enforced.
func (b *Book) IncrementCopies() { b.copies++ }

// DecrementCopies removes one copy. It fails with ErrOutOfStock and leaves
// the record unchanged when no copies are left.
func (b *Book) DecrementCopies() error {
	if b.copies == 0 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, b.title)
	}
	b.copies--
	return nil
}

func (b *Book) AddCopies(n int) {
	if n > 0 {
		b.copies += n
	}
}

// recordView is the serialized form shared by all variants.
type recordView struct {
	Kind          string  `json:"kind"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Year          int     `json:"year"`
	Copies        int     `json:"copies"`
	FileSizeMB    float64 `json:"file_size_mb,omitempty"`
	LengthMinutes int     `json:"length_minutes,omitempty"`
}

// MarshalJSON renders the book for export.
func (b *Book) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(recordView{
		Kind:   "book",
		Title:  b.title,
		Author: b.author,
		Year:   b.year,
		Copies: b.copies,
	})
}
