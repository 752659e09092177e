package storage

import (
	"testing"
	"time"

	"github.com/poiesic/cinerag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	id := core.ID(1234567890)
	data := MarshalID(id)
	got, err := UnmarshalID(data)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalMovie(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	movie := &core.Movie{
		Id:         core.ID(603),
		Title:      "The Matrix",
		Genres:     []string{"action", "sci-fi"},
		Year:       1999,
		AvgRating:  4.32,
		Overview:   "A computer hacker learns about the true nature of reality.",
		Content:    "Title: The Matrix. Genres: action, sci-fi. Year: 1999",
		Vector:     []float32{0.1, -0.5, 0.33},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	data := MarshalMovie(movie)
	got, err := UnmarshalMovie(data)
	require.NoError(t, err)
	assert.Equal(t, movie, got)
}

func TestMarshalUnmarshalMovie_MinimalRecord(t *testing.T) {
	// Zero timestamps and nil slices must survive a roundtrip unchanged
	movie := &core.Movie{Title: "Titanic"}

	data := MarshalMovie(movie)
	got, err := UnmarshalMovie(data)
	require.NoError(t, err)
	assert.Equal(t, movie, got)
	assert.True(t, got.InsertedAt.IsZero())
	assert.Nil(t, got.Genres)
	assert.Nil(t, got.Vector)
}

func TestUnmarshalMovie_Truncated(t *testing.T) {
	movie := &core.Movie{
		Id:     core.ID(1),
		Title:  "Inception",
		Genres: []string{"sci-fi", "thriller"},
		Year:   2010,
	}
	data := MarshalMovie(movie)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalMovie(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
	}
}
