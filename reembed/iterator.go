// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/storage"
)

const (
	// DefaultBatchSize is the default number of movies to process per batch
	DefaultBatchSize = 100
)

// MovieIterator walks the whole catalog in batches. When missingOnly is set,
// movies that already carry a vector are skipped.
type MovieIterator struct {
	repo        storage.MovieRepository
	batchSize   int
	missingOnly bool
}

// NewMovieIterator creates a new catalog iterator.
// batchSize: number of movies handed to fn per call (must be > 0)
func NewMovieIterator(repo storage.MovieRepository, batchSize int, missingOnly bool) *MovieIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &MovieIterator{
		repo:        repo,
		batchSize:   batchSize,
		missingOnly: missingOnly,
	}
}

// Count returns the number of movies the iterator would visit.
func (it *MovieIterator) Count(ctx context.Context) (int, error) {
	movies, err := it.collect(ctx)
	if err != nil {
		return 0, err
	}
	return len(movies), nil
}

// ForEach iterates over the selected movies, calling fn for each batch.
// Iteration stops on the first error from fn. Context cancellation is
// checked between batches.
func (it *MovieIterator) ForEach(ctx context.Context, fn func([]*core.Movie) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	movies, err := it.collect(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < len(movies); i += it.batchSize {
		end := i + it.batchSize
		if end > len(movies) {
			end = len(movies)
		}

		if err := fn(movies[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

func (it *MovieIterator) collect(ctx context.Context) ([]*core.Movie, error) {
	// An empty filter set with no limit scans the full catalog
	movies, err := it.repo.SearchMovies(ctx, storage.Filters{}, 0)
	if err != nil {
		return nil, err
	}

	if !it.missingOnly {
		return movies, nil
	}

	selected := movies[:0]
	for _, movie := range movies {
		if len(movie.Vector) == 0 {
			selected = append(selected, movie)
		}
	}
	return selected, nil
}
