package reembed

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cinerag/ai/mock"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/storage"
	"github.com/poiesic/cinerag/storage/badger"
)

func newReembedRepo(t *testing.T) storage.MovieRepository {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ctx := context.Background()
	movies := []*core.Movie{
		{Title: "Toy Story", Year: 1995, Genres: []string{"Animation"}, AvgRating: 3.92, Vector: []float32{0.1, 0.1}},
		{Title: "Heat", Year: 1995, Genres: []string{"Crime"}, AvgRating: 3.95},
		{Title: "Casino", Year: 1995, Genres: []string{"Crime"}, AvgRating: 3.9},
	}
	_, err = repo.AddMovies(ctx, movies...)
	require.NoError(t, err)

	return repo
}

func TestNewReembedder(t *testing.T) {
	repo := newReembedRepo(t)
	embedder := mock.NewMockEmbedder()

	t.Run("requires a repository", func(t *testing.T) {
		_, err := NewReembedder(nil, embedder, nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrMovieRepositoryRequired)
	})

	t.Run("requires an embedder", func(t *testing.T) {
		_, err := NewReembedder(repo, nil, nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		r, err := NewReembedder(repo, embedder, nil, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, 100, r.config.BatchSize)
		assert.Equal(t, 3, r.config.MaxRetries)
	})
}

func TestReembedder_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds the whole catalog", func(t *testing.T) {
		repo := newReembedRepo(t)
		embedder := mock.NewMockEmbedder()

		var progress bytes.Buffer
		r, err := NewReembedder(repo, embedder, &Config{
			BatchSize:      2,
			ReportInterval: 1,
			MaxRetries:     1,
			RetryDelay:     time.Millisecond,
		}, &progress)
		require.NoError(t, err)

		require.NoError(t, r.Run(ctx))

		stored, err := repo.SearchMovies(ctx, storage.Filters{}, 0)
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for _, movie := range stored {
			assert.NotEmpty(t, movie.Vector, movie.Title)
			assert.NotEmpty(t, movie.Content, movie.Title)
		}

		output := progress.String()
		assert.Contains(t, output, "Starting reembedding of 3 movies")
		assert.Contains(t, output, "Reembedding complete")
	})

	t.Run("missing only leaves embedded movies untouched", func(t *testing.T) {
		repo := newReembedRepo(t)
		embedder := mock.NewMockEmbedder()

		var progress bytes.Buffer
		config := DefaultConfig()
		config.MissingOnly = true
		config.RetryDelay = time.Millisecond

		r, err := NewReembedder(repo, embedder, config, &progress)
		require.NoError(t, err)

		require.NoError(t, r.Run(ctx))

		stored, err := repo.SearchMovies(ctx, storage.Filters{Title: "Toy Story"}, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, []float32{0.1, 0.1}, stored[0].Vector)

		assert.Contains(t, progress.String(), "Starting reembedding of 2 movies")
	})

	t.Run("empty catalog reports nothing to do", func(t *testing.T) {
		repo, backend, err := badger.NewMemoryRepository()
		require.NoError(t, err)
		defer func() {
			repo.Close()
			backend.Close()
		}()

		var progress bytes.Buffer
		r, err := NewReembedder(repo, mock.NewMockEmbedder(), nil, &progress)
		require.NoError(t, err)

		require.NoError(t, r.Run(ctx))
		assert.Contains(t, progress.String(), "No movies to reembed")
	})

	t.Run("embedding failure surfaces after retries", func(t *testing.T) {
		repo := newReembedRepo(t)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, assert.AnError
		}

		var progress bytes.Buffer
		r, err := NewReembedder(repo, embedder, &Config{
			BatchSize:      10,
			ReportInterval: 10,
			MaxRetries:     2,
			RetryDelay:     time.Millisecond,
		}, &progress)
		require.NoError(t, err)

		err = r.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.True(t, strings.Contains(err.Error(), "after 2 attempts"))
	})
}

func TestBatchProcessor_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch is a no-op", func(t *testing.T) {
		processor := NewBatchProcessor(nil, mock.NewMockEmbedder(), 1, time.Millisecond)
		require.NoError(t, processor.Process(ctx, nil))
	})

	t.Run("rebuilds missing content before embedding", func(t *testing.T) {
		repo := newReembedRepo(t)

		var embedded []string
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			embedded = texts
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{1, 2}
			}
			return vectors, nil
		}

		stored, err := repo.SearchMovies(ctx, storage.Filters{Title: "Heat"}, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)

		processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
		require.NoError(t, processor.Process(ctx, stored))

		require.Len(t, embedded, 1)
		assert.Contains(t, embedded[0], "Title: Heat")
		assert.Contains(t, embedded[0], "Genres: Crime")

		updated, err := repo.GetMovie(ctx, stored[0].Id)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, updated.Vector)
	})

	t.Run("count mismatch is an error", func(t *testing.T) {
		repo := newReembedRepo(t)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}

		stored, err := repo.SearchMovies(ctx, storage.Filters{}, 0)
		require.NoError(t, err)
		require.Len(t, stored, 3)

		processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
		err = processor.Process(ctx, stored)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "count mismatch")
	})
}
