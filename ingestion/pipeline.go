package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/storage"
)

// embedBatchSize is how many movie documents are embedded per request.
const embedBatchSize = 32

// Pipeline loads movies into the catalog and computes their embedding
// vectors on a bounded worker pool.
type Pipeline struct {
	movies   storage.MovieRepository
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	movies storage.MovieRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if movies == nil {
		return nil, ErrMovieRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		movies:   movies,
		embedder: provider.Embedder(),
		pool:     pool,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Ingest builds each movie's embedding document, stores the batch, and
// computes embedding vectors concurrently. It returns once every movie has
// been embedded and updated; embedding failures are logged and leave the
// affected movies vectorless rather than failing the ingest.
func (p *Pipeline) Ingest(ctx context.Context, movies []*core.Movie) ([]*core.Movie, error) {
	for _, movie := range movies {
		if movie.Content == "" {
			movie.Content = BuildMovieContent(movie)
		}
	}

	added, err := p.movies.AddMovies(ctx, movies...)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	for start := 0; start < len(added); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(added) {
			end = len(added)
		}
		batch := added[start:end]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			p.embedBatch(ctx, batch)
		})
		if err != nil {
			// Pool rejected the task; embed inline.
			p.embedBatch(ctx, batch)
			wg.Done()
		}
	}
	wg.Wait()

	return added, nil
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Movie) {
	texts := make([]string, len(batch))
	for i, movie := range batch {
		texts[i] = movie.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.logger.Error("error embedding movie batch", "batchSize", len(batch), "err", err)
		return
	}
	if len(vectors) != len(batch) {
		p.logger.Error("embedding count mismatch", "want", len(batch), "got", len(vectors))
		return
	}

	for i, movie := range batch {
		movie.Vector = vectors[i]
	}
	if _, err := p.movies.UpdateMovies(ctx, batch...); err != nil {
		p.logger.Error("error storing movie vectors", "batchSize", len(batch), "err", err)
	}
}

// IngestCatalog loads a MovieLens-style catalog from disk and ingests it.
func (p *Pipeline) IngestCatalog(ctx context.Context, moviesPath, ratingsPath string) ([]*core.Movie, error) {
	movies, err := LoadCatalog(moviesPath, ratingsPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded catalog", "movies", len(movies))
	return p.Ingest(ctx, movies)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
