// internal/book/variants_test.go
package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEBookValidatesFileSize(t *testing.T) {
	for _, size := range []float64{0, -5.2} {
		rec, err := NewEBook("Clean Code", "Robert Martin", 2008, 10, size)
		require.ErrorIs(t, err, ErrInvalidRecord)
		assert.Nil(t, rec)
	}

	rec, err := NewEBook("Clean Code", "Robert Martin", 2008, 10, 5.2)
	require.NoError(t, err)
	assert.Equal(t, 5.2, rec.FileSizeMB())
}

func TestNewAudioBookValidatesLength(t *testing.T) {
	for _, length := range []int{0, -480} {
		rec, err := NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, length)
		require.ErrorIs(t, err, ErrInvalidRecord)
		assert.Nil(t, rec)
	}

	rec, err := NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, 480)
	require.NoError(t, err)
	assert.Equal(t, 480, rec.LengthMinutes())
}

func TestVariantDisplayNames(t *testing.T) {
	ebook, err := NewEBook("Clean Code", "Robert Martin", 2008, 10, 5.2)
	require.NoError(t, err)
	audio, err := NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, 480)
	require.NoError(t, err)

	assert.Equal(t, "[EBOOK] CLEAN CODE", ebook.DisplayName())
	assert.Equal(t, "[AUDIO] The Great Gatsby", audio.DisplayName())

	// Represent form is shared across variants.
	assert.Equal(t, "Clean Code - Robert Martin (2008) x10", ebook.String())
}

func TestVariantsShareIdentityContract(t *testing.T) {
	printed, err := New("Dune", "Frank Herbert", 1965, 3)
	require.NoError(t, err)
	electronic, err := NewEBook("dune", "Frank Herbert", 1965, 1, 2.4)
	require.NoError(t, err)

	assert.True(t, printed.Equal(electronic))
	assert.Equal(t, printed.Key(), electronic.Key())
}

func TestVariantCopyMutationKeepsKey(t *testing.T) {
	audio, err := NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, 480)
	require.NoError(t, err)
	key := audio.Key()

	require.NoError(t, audio.DecrementCopies())
	assert.Equal(t, 0, audio.Copies())
	require.ErrorIs(t, audio.DecrementCopies(), ErrOutOfStock)

	audio.IncrementCopies()
	assert.Equal(t, key, audio.Key())
}

func TestVariantMarshalJSON(t *testing.T) {
	ebook, err := NewEBook("Clean Code", "Robert Martin", 2008, 10, 5.2)
	require.NoError(t, err)
	audio, err := NewAudioBook("The Great Gatsby", "F. Scott Fitzgerald", 1925, 1, 480)
	require.NoError(t, err)

	data, err := json.Marshal(ebook)
	require.NoError(t, err)
	var gotEBook map[string]any
	require.NoError(t, json.Unmarshal(data, &gotEBook))
	assert.Equal(t, "ebook", gotEBook["kind"])
	assert.Equal(t, 5.2, gotEBook["file_size_mb"])
	assert.NotContains(t, gotEBook, "length_minutes")

	data, err = json.Marshal(audio)
	require.NoError(t, err)
	var gotAudio map[string]any
	require.NoError(t, json.Unmarshal(data, &gotAudio))
	assert.Equal(t, "audiobook", gotAudio["kind"])
	assert.Equal(t, float64(480), gotAudio["length_minutes"])
}
