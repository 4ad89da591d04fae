// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"librarium/internal/book"
	"librarium/internal/ledger"
)

// service implements the Service interface. One mutex guards the record
// map, the insertion order and the ledger together for the duration of any
// mutating operation.
type service struct {
	name    string
	address string

	mu      sync.Mutex
	records map[string]book.Record // keyed by normalized title
	order   []string               // normalized titles, insertion order
	log     *ledger.Ledger

	tracer trace.Tracer
}

// NewService creates an empty catalog with its own ledger.
func NewService(name, address string) Service {
	return &service{
		name:    name,
		address: address,
		records: make(map[string]book.Record),
		log:     ledger.New(),
		tracer:  otel.Tracer("librarium/catalog"),
	}
}

func (s *service) Add(ctx context.Context, rec book.Record) error {
	ctx, span := s.tracer.Start(ctx, "catalog.add",
		trace.WithAttributes(
			attribute.String("book.title", rec.Title()),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := book.Normalize(rec.Title())
	if _, exists := s.records[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTitle, rec.Title())
	}

	s.insertLocked(ctx, key, rec)
	return nil
}

func (s *service) AddOrMerge(ctx context.Context, rec book.Record) error {
	ctx, span := s.tracer.Start(ctx, "catalog.add_or_merge",
		trace.WithAttributes(
			attribute.String("book.title", rec.Title()),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := book.Normalize(rec.Title())
	if existing, exists := s.records[key]; exists {
		existing.AddCopies(rec.Copies())
		span.SetAttributes(attribute.Bool("merged", true))
		s.appendLocked(ctx, EventBookAdded, BookAddedEvent{
			Title:  existing.Title(),
			Author: existing.Author(),
			Year:   existing.Year(),
			Copies: rec.Copies(),
		})
		return nil
	}

	s.insertLocked(ctx, key, rec)
	return nil
}

func (s *service) AddBook(ctx context.Context, title, author string, year, copies int) (book.Record, error) {
	rec, err := book.New(title, author, year, copies)
	if err != nil {
		return nil, err
	}
	if err := s.Add(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// insertLocked stores a new record and records the event. Callers hold s.mu.
func (s *service) insertLocked(ctx context.Context, key string, rec book.Record) {
	s.records[key] = rec
	s.order = append(s.order, key)
	s.appendLocked(ctx, EventBookAdded, BookAddedEvent{
		Title:  rec.Title(),
		Author: rec.Author(),
		Year:   rec.Year(),
		Copies: rec.Copies(),
	})
}

// appendLocked records an event. Payloads are catalog-owned structs, so
// encoding cannot fail.
func (s *service) appendLocked(ctx context.Context, eventType string, payload any) {
	_, _ = s.log.Append(ctx, eventType, payload)
}

func (s *service) Remove(ctx context.Context, title string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.remove",
		trace.WithAttributes(
			attribute.String("book.title", title),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := book.Normalize(title)
	rec, exists := s.records[key]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, title)
	}

	delete(s.records, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.appendLocked(ctx, EventBookRemoved, BookRemovedEvent{Title: rec.Title()})
	return nil
}

func (s *service) FindByTitle(title string) (book.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[book.Normalize(title)]
	return rec, exists
}

func (s *service) Search(ctx context.Context, q Query) iter.Seq[book.Record] {
	_, span := s.tracer.Start(ctx, "catalog.search",
		trace.WithAttributes(
			attribute.String("query.author", q.Author),
			attribute.String("query.title_contains", q.TitleContains),
		),
	)
	defer span.End()

	snapshot := s.snapshot()
	span.SetAttributes(attribute.Int("catalog.size", len(snapshot)))

	return func(yield func(book.Record) bool) {
		for _, rec := range snapshot {
			if !q.matches(rec) {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (q Query) matches(rec book.Record) bool {
	if q.Author != "" && !strings.EqualFold(q.Author, rec.Author()) {
		return false
	}
	if q.TitleContains != "" &&
		!strings.Contains(book.Normalize(rec.Title()), book.Normalize(q.TitleContains)) {
		return false
	}
	if q.Years != nil && (rec.Year() < q.Years.From || rec.Year() > q.Years.To) {
		return false
	}
	return true
}

func (s *service) Borrow(ctx context.Context, title string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.borrow",
		trace.WithAttributes(
			attribute.String("book.title", title),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[book.Normalize(title)]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	if err := rec.DecrementCopies(); err != nil {
		return err
	}

	s.appendLocked(ctx, EventBookBorrowed, BookBorrowedEvent{
		Title:  rec.Title(),
		Author: rec.Author(),
		Year:   rec.Year(),
	})
	span.SetAttributes(attribute.Int("copies.left", rec.Copies()))
	return nil
}

func (s *service) Return(ctx context.Context, title string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.return",
		trace.WithAttributes(
			attribute.String("book.title", title),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[book.Normalize(title)]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	rec.IncrementCopies()

	s.appendLocked(ctx, EventBookReturned, BookReturnedEvent{
		Title:  rec.Title(),
		Author: rec.Author(),
		Year:   rec.Year(),
	})
	span.SetAttributes(attribute.Int("copies.left", rec.Copies()))
	return nil
}

func (s *service) Contains(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.records[book.Normalize(title)]
	return exists
}

func (s *service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *service) All() iter.Seq[book.Record] {
	snapshot := s.snapshot()
	return func(yield func(book.Record) bool) {
		for _, rec := range snapshot {
			if !yield(rec) {
				return
			}
		}
	}
}

// snapshot copies the records in insertion order so that sequences handed
// out stay consistent with the catalog state at call time.
func (s *service) snapshot() []book.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]book.Record, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.records[key])
	}
	return out
}

func (s *service) At(i int) (book.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.order) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return s.records[s.order[i]], nil
}

func (s *service) BorrowHistory(ctx context.Context) ([]HistoryEntry, error) {
	events := s.log.EventsByType(ctx, EventBookBorrowed)

	entries := make([]HistoryEntry, 0, len(events))
	for _, event := range events {
		var payload BookBorrowedEvent
		if err := jsoniter.ConfigFastest.Unmarshal(event.EventData, &payload); err != nil {
			return nil, fmt.Errorf("decode borrow event %d: %w", event.ID, err)
		}
		entries = append(entries, HistoryEntry{
			Title:  payload.Title,
			Author: payload.Author,
			Year:   payload.Year,
			Seq:    event.ID,
			At:     event.OccurredAt,
		})
	}
	return entries, nil
}

func (s *service) History(ctx context.Context) []ledger.Event {
	return s.log.Events(ctx)
}

func (s *service) ExportJSON(ctx context.Context) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "catalog.export")
	defer span.End()

	export := struct {
		Name    string        `json:"name"`
		Address string        `json:"address"`
		Books   []book.Record `json:"books"`
	}{
		Name:    s.name,
		Address: s.address,
		Books:   s.snapshot(),
	}

	span.SetAttributes(attribute.Int("catalog.size", len(export.Books)))
	return jsoniter.ConfigFastest.Marshal(export)
}

func (s *service) Name() string    { return s.name }
func (s *service) Address() string { return s.address }

func (s *service) String() string {
	return fmt.Sprintf("Library(%s, books=%d, addr=%s)", s.name, s.Len(), s.address)
}

func (s *service) PrintAll(w io.Writer) {
	for rec := range s.All() {
		fmt.Fprintln(w, rec)
	}
}

func (s *service) PrintInfo(w io.Writer) {
	fmt.Fprintf(w, "Library: %s\n", s.name)
	fmt.Fprintf(w, "Address: %s\n", s.address)
	fmt.Fprintf(w, "Books: %d\n", s.Len())
	fmt.Fprintln(w, strings.Repeat("=", 50))
	for rec := range s.All() {
		fmt.Fprintf(w, "  %s\n", rec)
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}
