package reembed

import "errors"

var (
	// ErrMovieRepositoryRequired is returned when a nil repository is supplied
	ErrMovieRepositoryRequired = errors.New("movie repository is required")

	// ErrEmbedderRequired is returned when a nil embedder is supplied
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
