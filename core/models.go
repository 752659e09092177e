package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is either a catalog-assigned identifier or derived from content hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Movie is a catalog record. It may be enriched with an embedding vector
// during ingestion.
type Movie struct {
	Id         ID
	Title      string
	Genres     []string
	Year       int       // Release year; 0 when unknown
	AvgRating  float64   // Mean user rating on a 0-5 scale; 0 when unrated
	Overview   string    // Plot summary, may be empty
	Content    string    // Embedding document text (built at ingestion)
	Vector     []float32 // Embedding vector for semantic search (populated by processors)
	InsertedAt time.Time // When the record was inserted into the database
	UpdatedAt  time.Time // When the record was last updated
}

// RetrievedMovie pairs a movie with retrieval signals.
// Distance is the semantic distance from the query (lower = closer) and is
// meaningful only when HasDistance is set; database-method results carry none.
// Score is the fused rank value assigned during hybrid re-ranking.
type RetrievedMovie struct {
	Movie       *Movie
	Distance    float32
	HasDistance bool
	Score       float32
}

// Text returns the best available body text for the movie, falling back to
// the title when no embedding document was built.
func (r *RetrievedMovie) Text() string {
	if r.Movie == nil {
		return ""
	}
	if r.Movie.Content != "" {
		return r.Movie.Content
	}
	return r.Movie.Title
}

// GroundTruthObservation is one fixed evaluation observation: a query, the
// variable it focuses on, and the known-correct values for all three tracked
// fields of the movie it is about.
type GroundTruthObservation struct {
	ObservationId int
	Query         string
	FocusVariable string // one of the Variable* constants
	MovieTitle    string
	AvgRating     float64
	ReleaseYear   int
	SourceContext string
}

// Tracked field names of a GroundTruthObservation.
const (
	VariableMovieTitle  = "movie_title"
	VariableAvgRating   = "avg_rating"
	VariableReleaseYear = "release_year"
)
