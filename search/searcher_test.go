package search

import (
	"context"
	"testing"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/ai/mock"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/storage"
	"github.com/poiesic/cinerag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryVector is the fixed embedding all test queries map to.
var queryVector = []float32{1.0, 0.0, 0.0}

func newTestProvider() ai.AIProvider {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return queryVector, nil
	}
	return mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
}

func seedCatalog(t *testing.T, repo storage.MovieRepository) []*core.Movie {
	t.Helper()

	movies := []*core.Movie{
		{
			Title:     "Toy Story",
			Genres:    []string{"Animation", "Comedy"},
			Year:      1995,
			AvgRating: 3.92,
			Content:   "Toy Story (1995). Genres: Animation, Comedy. A cowboy doll is jealous of a new spaceman toy.",
			Vector:    []float32{0.9, 0.1, 0.0},
		},
		{
			Title:     "The Matrix",
			Genres:    []string{"Action", "Sci-Fi"},
			Year:      1999,
			AvgRating: 4.32,
			Content:   "The Matrix (1999). Genres: Action, Sci-Fi. A hacker discovers reality is a simulation.",
			Vector:    []float32{0.5, 0.5, 0.0},
		},
		{
			Title:     "Inception",
			Genres:    []string{"Action", "Thriller"},
			Year:      2010,
			AvgRating: 4.07,
			Content:   "Inception (2010). Genres: Action, Thriller. A thief steals secrets through dream infiltration.",
			Vector:    []float32{0.0, 1.0, 0.0},
		},
	}

	added, err := repo.AddMovies(context.Background(), movies...)
	require.NoError(t, err)
	require.Len(t, added, 3)
	return added
}

func TestNewSearcher(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, provider, nil)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil movie repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider, nil)
		assert.Equal(t, ErrMovieRepositoryRequired, err)
	})

	t.Run("nil provider is allowed", func(t *testing.T) {
		searcher, err := NewSearcher(repo, nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("invalid alpha", func(t *testing.T) {
		_, err := NewSearcher(repo, provider, nil, WithAlpha(1.5))
		assert.Equal(t, ErrInvalidAlpha, err)
	})
}

func TestRoute(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want Method
	}{
		{"similar", "movies similar to Inception", MethodSemantic},
		{"plot", "a movie with a twisty plot", MethodSemantic},
		{"about", "films about space travel", MethodSemantic},
		{"recommend", "recommend me a thriller", MethodHybrid},
		{"find", "find sci-fi movies", MethodHybrid},
		{"semantic wins over hybrid", "recommend something like The Matrix", MethodSemantic},
		{"neither indicator", "comedy movies from 1995", MethodDatabase},
		{"empty", "", MethodDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searcher.Route(tt.text))
		})
	}
}

func TestRetrieve_EmptyCatalog(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	results, method, err := searcher.Retrieve(context.Background(), "movies about anything", 10)
	require.NoError(t, err)
	assert.Equal(t, MethodSemantic, method)
	assert.Empty(t, results)
}

func TestRetrieve_Semantic(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	results, method, err := searcher.Retrieve(context.Background(), "movies about toys", 2)
	require.NoError(t, err)
	assert.Equal(t, MethodSemantic, method)
	require.Len(t, results, 2)

	// Ascending distance from the query vector: Toy Story is closest.
	assert.Equal(t, "Toy Story", results[0].Movie.Title)
	assert.Equal(t, "The Matrix", results[1].Movie.Title)
	assert.True(t, results[0].HasDistance)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestRetrieve_Hybrid(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	// Equidistant vectors so the keyword signal decides the order.
	_, err = repo.AddMovies(context.Background(), &core.Movie{
		Title:   "Quiet Drama",
		Content: "Quiet Drama. A slow family portrait.",
		Vector:  []float32{0.5, 0.5, 0.0},
	}, &core.Movie{
		Title:   "Star Chase",
		Content: "Star Chase. Genres: Action, Sci-Fi. A space chase.",
		Vector:  []float32{0.5, 0.5, 0.0},
	})
	require.NoError(t, err)

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	results, method, err := searcher.Retrieve(context.Background(), "recommend sci-fi", 2)
	require.NoError(t, err)
	assert.Equal(t, MethodHybrid, method)
	require.Len(t, results, 2)

	assert.Equal(t, "Star Chase", results[0].Movie.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieve_HybridTruncates(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	results, _, err := searcher.Retrieve(context.Background(), "recommend a movie", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRetrieve_Database(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	t.Run("genre and year filters", func(t *testing.T) {
		results, method, err := searcher.Retrieve(context.Background(), "comedy movies from 1995", 10)
		require.NoError(t, err)
		assert.Equal(t, MethodDatabase, method)
		require.Len(t, results, 1)
		assert.Equal(t, "Toy Story", results[0].Movie.Title)
		assert.False(t, results[0].HasDistance)
	})

	t.Run("no filters returns catalog slice", func(t *testing.T) {
		results, method, err := searcher.Retrieve(context.Background(), "anything at all", 10)
		require.NoError(t, err)
		assert.Equal(t, MethodDatabase, method)
		assert.Len(t, results, 3)
	})
}

func TestRetrieve_DowngradesWithoutEmbedder(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	searcher, err := NewSearcher(repo, nil, nil)
	require.NoError(t, err)

	results, method, err := searcher.Retrieve(context.Background(), "movies about toys", 10)
	require.NoError(t, err)
	assert.Equal(t, MethodDatabase, method)
	assert.NotEmpty(t, results)
}

func TestRetrieve_DowngradesOnEmbedderFailure(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, assert.AnError
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	searcher, err := NewSearcher(repo, provider, nil)
	require.NoError(t, err)

	results, method, err := searcher.Retrieve(context.Background(), "movies about toys", 10)
	require.NoError(t, err)
	assert.Equal(t, MethodDatabase, method)
	assert.NotEmpty(t, results)
}

func TestFusionMonotonic(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	movie := &core.Movie{Title: "Some Movie", Content: "identical keyword text"}
	near := &core.RetrievedMovie{Movie: movie, Distance: 0.1, HasDistance: true}
	far := &core.RetrievedMovie{Movie: movie, Distance: 2.0, HasDistance: true}

	// With identical keyword signal, smaller distance never scores lower.
	assert.Greater(t, searcher.fuse("some query", near), searcher.fuse("some query", far))
}

func TestKeywordScore(t *testing.T) {
	ind := DefaultIndicators()

	t.Run("verbatim query", func(t *testing.T) {
		score := keywordScore("the matrix", "a film called the matrix from 1999", ind)
		// +10 verbatim, +2 for "the", +2 for "matrix"
		assert.InDelta(t, 14.0, score, 1e-9)
	})

	t.Run("shared genre term", func(t *testing.T) {
		score := keywordScore("sci-fi films", "genres: action, sci-fi", ind)
		// +2 for "sci-fi" term, +3 genre bonus
		assert.InDelta(t, 5.0, score, 1e-9)
	})

	t.Run("shared recent year scores once", func(t *testing.T) {
		score := keywordScore("2019 2020", "best of 2019 and 2020", ind)
		// +2 per term, +5 single year bonus
		assert.InDelta(t, 9.0, score, 1e-9)
	})

	t.Run("repeated terms score per occurrence", func(t *testing.T) {
		score := keywordScore("dream heist", "a dream within a dream during the heist", ind)
		// +2x2 for "dream", +2x1 for "heist"
		assert.InDelta(t, 6.0, score, 1e-9)
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Zero(t, keywordScore("zebra", "a movie plot", ind))
	})
}

func TestSearchMonitor(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	seedCatalog(t, repo)

	searcher, err := NewSearcher(repo, newTestProvider(), nil)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, _, err := searcher.RetrieveWithMonitor(context.Background(), "recommend sci-fi", 2, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "recommend sci-fi", monitor.startQuery)
	assert.Equal(t, MethodHybrid, monitor.startMethod)
	assert.NotEmpty(t, monitor.semantic)
	assert.NotEmpty(t, monitor.fused)
	assert.Len(t, monitor.finished, len(results))
}

type recordingMonitor struct {
	startQuery  string
	startMethod Method
	semantic    []*core.RetrievedMovie
	fused       []*core.RetrievedMovie
	database    []*core.Movie
	downgrades  []error
	finished    []*core.RetrievedMovie
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string, method Method) {
	m.startQuery = query
	m.startMethod = method
}
func (m *recordingMonitor) AfterSemanticSearch(c []*core.RetrievedMovie) { m.semantic = c }
func (m *recordingMonitor) AfterFusion(r []*core.RetrievedMovie)         { m.fused = r }
func (m *recordingMonitor) AfterDatabaseSearch(movies []*core.Movie)     { m.database = movies }
func (m *recordingMonitor) Downgraded(err error)                         { m.downgrades = append(m.downgrades, err) }
func (m *recordingMonitor) Finish(r []*core.RetrievedMovie)              { m.finished = r }
