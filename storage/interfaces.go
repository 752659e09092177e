package storage

import (
	"context"

	"github.com/poiesic/cinerag/core"
)

// Filters describes catalog search criteria. Zero-valued fields are not
// applied. Genres are matched case-insensitively; all listed genres must be
// present on a movie for it to match.
type Filters struct {
	Title     string   // substring match, case-insensitive
	Genres    []string // all must match
	Year      int      // exact match when non-zero
	MinRating float64  // minimum average rating when > 0
}

// MovieRepository provides operations for managing the movie catalog and
// nearest-neighbor lookup over stored embedding vectors.
// Implementations must be thread-safe and support concurrent access.
type MovieRepository interface {
	// AddMovies adds one or more movies to storage.
	// For movies with Id=0, derives a content-based ID from title and year.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns the movies with IDs and timestamps populated.
	AddMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error)

	// UpdateMovies updates existing movies.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any movie doesn't exist.
	UpdateMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error)

	// DeleteMovies removes movies by their IDs.
	// Returns ErrNotFound if any movie doesn't exist.
	DeleteMovies(ctx context.Context, ids ...core.ID) error

	// GetMovie retrieves a single movie by ID.
	// Returns ErrNotFound if the movie doesn't exist.
	GetMovie(ctx context.Context, id core.ID) (*core.Movie, error)

	// GetMovies retrieves multiple movies by their IDs.
	// Returns only the movies that exist (no error for missing movies).
	GetMovies(ctx context.Context, ids ...core.ID) ([]*core.Movie, error)

	// SearchMovies retrieves movies matching the filters, up to limit results.
	// Ordering is storage-defined.
	SearchMovies(ctx context.Context, filters Filters, limit int) ([]*core.Movie, error)

	// FindNearest finds the movies whose embedding vectors are closest to the
	// given vector, ordered by ascending distance, up to limit results.
	// Movies without vectors are skipped; an empty catalog or a catalog with
	// no embedded movies yields an empty result, not an error.
	FindNearest(ctx context.Context, vector []float32, limit int) ([]*core.RetrievedMovie, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
