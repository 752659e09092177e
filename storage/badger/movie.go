package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/storage"
)

// MovieRepository implements storage.MovieRepository for BadgerDB.
type MovieRepository struct {
	backend *Backend
}

var _ storage.MovieRepository = (*MovieRepository)(nil)

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(backend *Backend) (*MovieRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &MovieRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *MovieRepository) Close() error {
	return nil
}

// FindNearest delegates to the backend.
func (r *MovieRepository) FindNearest(ctx context.Context, vector []float32, limit int) ([]*core.RetrievedMovie, error) {
	return r.backend.FindNearest(ctx, vector, limit)
}

// WithTransaction delegates to the backend.
func (r *MovieRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMovies adds one or more movies to storage.
func (r *MovieRepository) AddMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, movie := range movies {
			if err := core.ValidateMovie(movie); err != nil {
				return err
			}

			// Catalog-assigned IDs are kept; otherwise derive one from content
			if movie.Id == 0 {
				movie.Id = core.IDFromContent(fmt.Sprintf("%s (%d)", movie.Title, movie.Year))
			}

			movie.InsertedAt = time.Now().UTC()
			movie.UpdatedAt = movie.InsertedAt

			key := makeMovieKey(movie.Id)
			if err := tx.Set(key, storage.MarshalMovie(movie)); err != nil {
				return err
			}

			if movie.Year != 0 {
				yearKey := makeMovieYearKey(movie.Year, movie.Id)
				if err := tx.Set(yearKey, storage.MarshalID(movie.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return movies, err
}

// UpdateMovies updates existing movies.
func (r *MovieRepository) UpdateMovies(ctx context.Context, movies ...*core.Movie) ([]*core.Movie, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, movie := range movies {
			key := makeMovieKey(movie.Id)

			old, err := r.readMovie(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			movie.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalMovie(movie)); err != nil {
				return err
			}

			// Update year index if the year changed
			if old.Year != movie.Year {
				if old.Year != 0 {
					if err := tx.Delete(makeMovieYearKey(old.Year, movie.Id)); err != nil {
						return err
					}
				}
				if movie.Year != 0 {
					if err := tx.Set(makeMovieYearKey(movie.Year, movie.Id), storage.MarshalID(movie.Id)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return movies, err
}

// DeleteMovies removes movies by their IDs.
func (r *MovieRepository) DeleteMovies(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMovieKey(id)

			movie, err := r.readMovie(tx, key)
			if err != nil {
				return err
			}
			if movie == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if movie.Year != 0 {
				if err := tx.Delete(makeMovieYearKey(movie.Year, id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetMovie retrieves a single movie by ID.
func (r *MovieRepository) GetMovie(ctx context.Context, id core.ID) (*core.Movie, error) {
	var movie *core.Movie

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		movie, err = r.readMovie(tx, makeMovieKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, storage.ErrNotFound
	}

	return movie, nil
}

// GetMovies retrieves multiple movies by their IDs.
// Missing movies are skipped, not errors.
func (r *MovieRepository) GetMovies(ctx context.Context, ids ...core.ID) ([]*core.Movie, error) {
	movies := make([]*core.Movie, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			movie, err := r.readMovie(tx, makeMovieKey(id))
			if err != nil {
				return err
			}
			if movie != nil {
				movies = append(movies, movie)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// SearchMovies retrieves movies matching the filters, up to limit results.
// A year filter narrows the scan through the year index; all other filters
// are applied while scanning.
func (r *MovieRepository) SearchMovies(ctx context.Context, filters storage.Filters, limit int) ([]*core.Movie, error) {
	if filters.Year != 0 {
		return r.searchByYear(filters, limit)
	}
	return r.scanMovies(filters, limit)
}

func (r *MovieRepository) searchByYear(filters storage.Filters, limit int) ([]*core.Movie, error) {
	var movies []*core.Movie

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialMovieYearKey(filters.Year)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid() && bytes.HasPrefix(iter.Item().Key(), prefix); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			movie, err := r.readMovie(tx, makeMovieKey(id))
			if err != nil {
				return err
			}
			if movie == nil || !matchesFilters(movie, filters) {
				continue
			}

			movies = append(movies, movie)
			if limit > 0 && len(movies) >= limit {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func (r *MovieRepository) scanMovies(filters storage.Filters, limit int) ([]*core.Movie, error) {
	var movies []*core.Movie

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(movieRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var movie *core.Movie
			err := iter.Item().Value(func(val []byte) error {
				var err error
				movie, err = storage.UnmarshalMovie(val)
				return err
			})
			if err != nil {
				return err
			}
			if movie == nil || !matchesFilters(movie, filters) {
				continue
			}

			movies = append(movies, movie)
			if limit > 0 && len(movies) >= limit {
				return nil
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func matchesFilters(movie *core.Movie, filters storage.Filters) bool {
	if filters.Title != "" &&
		!strings.Contains(strings.ToLower(movie.Title), strings.ToLower(filters.Title)) {
		return false
	}

	for _, want := range filters.Genres {
		if !hasGenre(movie, want) {
			return false
		}
	}

	if filters.Year != 0 && movie.Year != filters.Year {
		return false
	}

	if filters.MinRating > 0 && movie.AvgRating < filters.MinRating {
		return false
	}

	return true
}

func hasGenre(movie *core.Movie, genre string) bool {
	for _, g := range movie.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

func (r *MovieRepository) readMovie(tx *badger.Txn, key []byte) (*core.Movie, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var movie *core.Movie
	err = item.Value(func(val []byte) error {
		var err error
		movie, err = storage.UnmarshalMovie(val)
		return err
	})
	if err != nil {
		return nil, err
	}

	return movie, nil
}
