package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/query"
	"github.com/poiesic/cinerag/storage"
)

// defaultAlpha weights the semantic signal in hybrid fusion.
const defaultAlpha = 0.7

// kwNormCeiling is the raw keyword score that saturates the normalized
// keyword signal at 1.0.
const kwNormCeiling = 20.0

// Searcher routes movie queries to a retrieval strategy and ranks the
// results. Semantic and hybrid methods need an embedder; without one the
// searcher serves every query from catalog filters.
type Searcher struct {
	movies     storage.MovieRepository
	embedder   ai.Embedder
	parser     *query.Parser
	indicators Indicators
	alpha      float64
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAlpha sets the fusion weight given to the semantic signal.
// Default is 0.7.
func WithAlpha(alpha float64) Option {
	return func(s *Searcher) error {
		if alpha < 0 || alpha > 1 {
			return ErrInvalidAlpha
		}
		s.alpha = alpha
		return nil
	}
}

// WithIndicators replaces the routing and scoring vocabulary.
func WithIndicators(ind Indicators) Option {
	return func(s *Searcher) error {
		s.indicators = ind
		return nil
	}
}

// NewSearcher creates a new searcher. The provider may be nil, in which case
// semantic and hybrid queries downgrade to database search.
func NewSearcher(
	movies storage.MovieRepository,
	provider ai.AIProvider,
	parser *query.Parser,
	opts ...Option,
) (*Searcher, error) {
	if movies == nil {
		return nil, ErrMovieRepositoryRequired
	}
	if parser == nil {
		parser = query.NewDefaultParser()
	}

	s := &Searcher{
		movies:     movies,
		parser:     parser,
		indicators: DefaultIndicators(),
		alpha:      defaultAlpha,
		logger:     slog.Default(),
	}
	if provider != nil {
		s.embedder = provider.Embedder()
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Route picks the retrieval method for a query. Semantic indicators are
// checked before hybrid indicators; a query matching neither set routes to
// database search.
func (s *Searcher) Route(text string) Method {
	lower := strings.ToLower(text)
	for _, term := range s.indicators.Semantic {
		if strings.Contains(lower, term) {
			return MethodSemantic
		}
	}
	for _, term := range s.indicators.Hybrid {
		if strings.Contains(lower, term) {
			return MethodHybrid
		}
	}
	return MethodDatabase
}

// Retrieve routes the query and returns up to maxHits ranked movies along
// with the method that actually served them. When the semantic index is
// unavailable the searcher downgrades to database search instead of failing.
func (s *Searcher) Retrieve(ctx context.Context, text string, maxHits int) ([]*core.RetrievedMovie, Method, error) {
	return s.RetrieveWithMonitor(ctx, text, maxHits, nil)
}

// RetrieveWithMonitor is Retrieve with monitoring callbacks at each stage.
func (s *Searcher) RetrieveWithMonitor(ctx context.Context, text string, maxHits int, monitor SearchMonitor) ([]*core.RetrievedMovie, Method, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	method := s.Route(text)
	monitor.Start(text, method)

	var results []*core.RetrievedMovie
	var err error

	switch method {
	case MethodSemantic:
		results, err = s.semanticSearch(ctx, text, maxHits, monitor)
	case MethodHybrid:
		results, err = s.hybridSearch(ctx, text, maxHits, monitor)
	default:
		results, err = s.databaseSearch(ctx, text, maxHits, monitor)
	}

	if err != nil && errors.Is(err, ErrRetrievalUnavailable) && method != MethodDatabase {
		s.logger.Warn("semantic retrieval unavailable, downgrading to database search", "query", text, "err", err)
		monitor.Downgraded(err)
		method = MethodDatabase
		results, err = s.databaseSearch(ctx, text, maxHits, monitor)
	}
	if err != nil {
		return nil, method, err
	}

	results = s.enrich(ctx, results)
	monitor.Finish(results)

	return results, method, nil
}

// semanticCandidates embeds the query and pulls the nearest movies by
// ascending distance. Index and embedder failures both surface as
// ErrRetrievalUnavailable so the caller can downgrade.
func (s *Searcher) semanticCandidates(ctx context.Context, text string, limit int) ([]*core.RetrievedMovie, error) {
	if s.embedder == nil {
		return nil, ErrRetrievalUnavailable
	}

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ErrRetrievalUnavailable, err)
	}

	candidates, err := s.movies.FindNearest(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: nearest-neighbor search: %v", ErrRetrievalUnavailable, err)
	}
	return candidates, nil
}

func (s *Searcher) semanticSearch(ctx context.Context, text string, maxHits int, monitor SearchMonitor) ([]*core.RetrievedMovie, error) {
	candidates, err := s.semanticCandidates(ctx, text, maxHits)
	if err != nil {
		return nil, err
	}
	monitor.AfterSemanticSearch(candidates)
	return candidates, nil
}

// hybridSearch pulls twice the requested hits from the semantic index, then
// re-ranks by fusing the distance-derived similarity with a keyword overlap
// score. The sort is stable so ties preserve semantic order.
func (s *Searcher) hybridSearch(ctx context.Context, text string, maxHits int, monitor SearchMonitor) ([]*core.RetrievedMovie, error) {
	candidates, err := s.semanticCandidates(ctx, text, 2*maxHits)
	if err != nil {
		return nil, err
	}
	monitor.AfterSemanticSearch(candidates)

	queryLower := strings.ToLower(text)
	for _, candidate := range candidates {
		candidate.Score = float32(s.fuse(queryLower, candidate))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxHits {
		candidates = candidates[:maxHits]
	}
	monitor.AfterFusion(candidates)

	return candidates, nil
}

// fuse combines the semantic and keyword signals into one rank value in [0,1].
func (s *Searcher) fuse(queryLower string, candidate *core.RetrievedMovie) float64 {
	sSem := 1.0 / (1.0 + float64(candidate.Distance))

	kwNorm := keywordScore(queryLower, strings.ToLower(candidate.Text()), s.indicators) / kwNormCeiling
	if kwNorm > 1.0 {
		kwNorm = 1.0
	}

	return s.alpha*sSem + (1.0-s.alpha)*kwNorm
}

// databaseSearch serves the query from catalog filters extracted by the
// parser. Ordering is storage-defined.
func (s *Searcher) databaseSearch(ctx context.Context, text string, maxHits int, monitor SearchMonitor) ([]*core.RetrievedMovie, error) {
	parsed := s.parser.Parse(text)

	filters := storage.Filters{
		Title:  parsed.Params.Title,
		Genres: parsed.Params.Genres,
		Year:   parsed.Params.Year,
	}
	if parsed.Params.HasMinRating {
		filters.MinRating = parsed.Params.MinRating
	}

	movies, err := s.movies.SearchMovies(ctx, filters, maxHits)
	if err != nil {
		s.logger.Error("error searching catalog", "query", text, "err", err)
		return nil, err
	}
	monitor.AfterDatabaseSearch(movies)

	results := make([]*core.RetrievedMovie, 0, len(movies))
	for _, movie := range movies {
		results = append(results, &core.RetrievedMovie{Movie: movie})
	}
	return results, nil
}

// enrich refreshes each result from the catalog. A candidate whose lookup
// fails keeps its retrieval-time copy rather than being dropped.
func (s *Searcher) enrich(ctx context.Context, results []*core.RetrievedMovie) []*core.RetrievedMovie {
	for _, result := range results {
		if result.Movie == nil {
			continue
		}
		movie, err := s.movies.GetMovie(ctx, result.Movie.Id)
		if err != nil {
			s.logger.Debug("catalog enrichment failed, keeping retrieved copy", "id", result.Movie.Id, "err", err)
			continue
		}
		result.Movie = movie
	}
	return results
}
