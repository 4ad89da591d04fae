// internal/book/variants.go
package book

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// EBook is an electronic variant carrying its download size.
type EBook struct {
	Book
	fileSizeMB float64
}

// NewEBook validates the arguments and builds an electronic book.
func NewEBook(title, author string, year, copies int, fileSizeMB float64) (*EBook, error) {
	if err := validate(title, author, year, copies); err != nil {
		return nil, err
	}
	if fileSizeMB <= 0 {
		return nil, fmt.Errorf("%w: non-positive file size %g", ErrInvalidRecord, fileSizeMB)
	}
	return &EBook{
		Book:       Book{title: title, author: author, year: year, copies: copies},
		fileSizeMB: fileSizeMB,
	}, nil
}

func (e *EBook) FileSizeMB() float64 { return e.fileSizeMB }

// DisplayName marks the variant and upper-cases the title, matching how
// electronic titles are listed.
func (e *EBook) DisplayName() string {
	return "[EBOOK] " + strings.ToUpper(e.title)
}

func (e *EBook) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(recordView{
		Kind:       "ebook",
		Title:      e.title,
		Author:     e.author,
		Year:       e.year,
		Copies:     e.copies,
		FileSizeMB: e.fileSizeMB,
	})
}

// AudioBook is a recorded variant carrying its running time.
type AudioBook struct {
	Book
	lengthMinutes int
}

// NewAudioBook validates the arguments and builds an audio book.
func NewAudioBook(title, author string, year, copies, lengthMinutes int) (*AudioBook, error) {
	if err := validate(title, author, year, copies); err != nil {
		return nil, err
	}
	if lengthMinutes <= 0 {
		return nil, fmt.Errorf("%w: non-positive length %d", ErrInvalidRecord, lengthMinutes)
	}
	return &AudioBook{
		Book:          Book{title: title, author: author, year: year, copies: copies},
		lengthMinutes: lengthMinutes,
	}, nil
}

func (a *AudioBook) LengthMinutes() int { return a.lengthMinutes }

func (a *AudioBook) DisplayName() string {
	return "[AUDIO] " + a.title
}

func (a *AudioBook) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(recordView{
		Kind:          "audiobook",
		Title:         a.title,
		Author:        a.author,
		Year:          a.year,
		Copies:        a.copies,
		LengthMinutes: a.lengthMinutes,
	})
}
