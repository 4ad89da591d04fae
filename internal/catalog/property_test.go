// internal/catalog/property_test.go
package catalog

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"librarium/internal/book"
)

// The model is a map from normalized title to expected copy count; the
// catalog must agree with it after every step.
func TestCatalogStateMachine(t *testing.T) {
	titles := []string{"Dune", "DUNE", "1984", "Solaris", "Ubik", "ubik"}

	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		lib := NewService("Model Library", "Nowhere 0")
		model := make(map[string]int)

		titleGen := rapid.SampledFrom(titles)

		t.Repeat(map[string]func(*rapid.T){
			"add": func(t *rapid.T) {
				title := titleGen.Draw(t, "title")
				copies := rapid.IntRange(0, 4).Draw(t, "copies")
				rec, err := book.New(title, "Some Author", 1990, copies)
				if err != nil {
					t.Fatalf("construct record: %v", err)
				}

				key := book.Normalize(title)
				err = lib.Add(ctx, rec)
				if _, exists := model[key]; exists {
					if !errors.Is(err, ErrDuplicateTitle) {
						t.Fatalf("duplicate add of %q: got %v, want ErrDuplicateTitle", title, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("add %q: %v", title, err)
				}
				model[key] = copies
			},
			"merge": func(t *rapid.T) {
				title := titleGen.Draw(t, "title")
				copies := rapid.IntRange(0, 4).Draw(t, "copies")
				rec, err := book.New(title, "Some Author", 1990, copies)
				if err != nil {
					t.Fatalf("construct record: %v", err)
				}

				if err := lib.AddOrMerge(ctx, rec); err != nil {
					t.Fatalf("merge %q: %v", title, err)
				}
				model[book.Normalize(title)] += copies
			},
			"borrow": func(t *rapid.T) {
				title := titleGen.Draw(t, "title")
				key := book.Normalize(title)

				err := lib.Borrow(ctx, title)
				copies, exists := model[key]
				switch {
				case !exists:
					if !errors.Is(err, ErrNotFound) {
						t.Fatalf("borrow of absent %q: got %v, want ErrNotFound", title, err)
					}
				case copies == 0:
					if !errors.Is(err, book.ErrOutOfStock) {
						t.Fatalf("borrow of drained %q: got %v, want ErrOutOfStock", title, err)
					}
				default:
					if err != nil {
						t.Fatalf("borrow %q: %v", title, err)
					}
					model[key]--
				}
			},
			"return": func(t *rapid.T) {
				title := titleGen.Draw(t, "title")
				key := book.Normalize(title)

				err := lib.Return(ctx, title)
				if _, exists := model[key]; !exists {
					if !errors.Is(err, ErrNotFound) {
						t.Fatalf("return of absent %q: got %v, want ErrNotFound", title, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("return %q: %v", title, err)
				}
				model[key]++
			},
			"remove": func(t *rapid.T) {
				title := titleGen.Draw(t, "title")
				key := book.Normalize(title)

				err := lib.Remove(ctx, title)
				if _, exists := model[key]; !exists {
					if !errors.Is(err, ErrNotFound) {
						t.Fatalf("remove of absent %q: got %v, want ErrNotFound", title, err)
					}
					return
				}
				if err != nil {
					t.Fatalf("remove %q: %v", title, err)
				}
				delete(model, key)
			},
			"": func(t *rapid.T) {
				if lib.Len() != len(model) {
					t.Fatalf("catalog has %d titles, model has %d", lib.Len(), len(model))
				}
				for key, copies := range model {
					rec, found := lib.FindByTitle(key)
					if !found {
						t.Fatalf("model title %q missing from catalog", key)
					}
					if rec.Copies() != copies {
						t.Fatalf("title %q has %d copies, model says %d", key, rec.Copies(), copies)
					}
					if rec.Copies() < 0 {
						t.Fatalf("title %q has negative copies", key)
					}
					if rec.Key().Title != key {
						t.Fatalf("record filed under %q has key title %q", key, rec.Key().Title)
					}
				}
				seen := 0
				for rec := range lib.All() {
					if _, known := model[book.Normalize(rec.Title())]; !known {
						t.Fatalf("catalog yields unknown title %q", rec.Title())
					}
					seen++
				}
				if seen != len(model) {
					t.Fatalf("iteration yielded %d records, model has %d", seen, len(model))
				}
			},
		})
	})
}

// Borrow and return never change which record a key resolves to, only the
// copy counter on it.
func TestBorrowReturnRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		lib := NewService("Model Library", "Nowhere 0")

		copies := rapid.IntRange(1, 10).Draw(t, "copies")
		rec, err := book.New("Dune", "Frank Herbert", 1965, copies)
		if err != nil {
			t.Fatalf("construct record: %v", err)
		}
		if err := lib.Add(ctx, rec); err != nil {
			t.Fatalf("add: %v", err)
		}
		key := rec.Key()

		rounds := rapid.IntRange(1, 20).Draw(t, "rounds")
		for i := 0; i < rounds; i++ {
			if err := lib.Borrow(ctx, "Dune"); err != nil {
				t.Fatalf("borrow round %d: %v", i, err)
			}
			if err := lib.Return(ctx, "dune"); err != nil {
				t.Fatalf("return round %d: %v", i, err)
			}
		}

		got, found := lib.FindByTitle("DUNE")
		if !found {
			t.Fatal("record vanished")
		}
		if got.Copies() != copies {
			t.Fatalf("copies drifted: got %d, want %d", got.Copies(), copies)
		}
		if got.Key() != key {
			t.Fatalf("identity drifted: got %+v, want %+v", got.Key(), key)
		}
	})
}
