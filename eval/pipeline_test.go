package eval

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/cinerag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAnswerer returns canned responses or fails on demand.
type stubAnswerer struct {
	response string
	sources  []*core.Movie
	err      error
	panics   bool
}

func (s *stubAnswerer) Answer(_ context.Context, _ string) (string, []*core.Movie, error) {
	if s.panics {
		panic("answerer exploded")
	}
	return s.response, s.sources, s.err
}

func TestRunAll_FallbackOnly(t *testing.T) {
	pipeline, err := NewPipeline(&stubAnswerer{err: assert.AnError})
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())

	// Fallbacks still count as successful evaluations.
	assert.Equal(t, 15, report.Summary.TotalObservations)
	assert.Equal(t, 15, report.Summary.SuccessfulObservations)
	assert.InDelta(t, 1.0, report.Summary.SuccessRate, 1e-9)

	// The fallback text always contains the expected title verbatim.
	require.NotNil(t, report.VariableMetrics.MovieTitle)
	assert.Equal(t, 15, report.VariableMetrics.MovieTitle.TotalTests)
	assert.InDelta(t, 1.0, report.VariableMetrics.MovieTitle.FuzzyAccuracy, 1e-9)
	assert.InDelta(t, 1.0, report.VariableMetrics.MovieTitle.ExactAccuracy, 1e-9)

	// The fallback carries no rating or year to extract.
	assert.Nil(t, report.VariableMetrics.AvgRating)
	assert.Nil(t, report.VariableMetrics.ReleaseYear)

	// No sources means nothing is grounded.
	assert.Zero(t, report.Summary.AvgGroundednessScore)
	assert.InDelta(t, 1.0/3.0, report.Summary.AvgTruthfulnessScore, 1e-9)
}

func TestRunAll_NilAnswerer(t *testing.T) {
	pipeline, err := NewPipeline(nil)
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())
	assert.InDelta(t, 1.0, report.Summary.SuccessRate, 1e-9)
	assert.Len(t, report.DetailedResults, 15)
}

func TestRunAll_Idempotent(t *testing.T) {
	pipeline, err := NewPipeline(nil)
	require.NoError(t, err)
	defer pipeline.Release()

	first := pipeline.RunAll(context.Background())
	second := pipeline.RunAll(context.Background())

	assert.Equal(t, first.Summary.SuccessRate, second.Summary.SuccessRate)
	assert.Equal(t, first.Summary.AvgGroundednessScore, second.Summary.AvgGroundednessScore)
	assert.Equal(t, first.Summary.AvgTruthfulnessScore, second.Summary.AvgTruthfulnessScore)
	assert.Equal(t, first.VariableMetrics, second.VariableMetrics)
}

func TestRunAll_FullyInformedAnswer(t *testing.T) {
	observation := core.GroundTruthDataset[0] // Inception, 4.07, 2010

	answerer := &stubAnswerer{
		response: "Inception has a rating of 4.07 and was released in 2010.",
		sources: []*core.Movie{
			{Title: "Inception", Content: "Inception (2010) is a sci-fi thriller about dreams"},
		},
	}

	pipeline, err := NewPipeline(answerer, WithDataset([]core.GroundTruthObservation{observation}))
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())
	require.Len(t, report.DetailedResults, 1)

	record := report.DetailedResults[0]
	assert.True(t, record.Success)
	assert.Equal(t, observation.ObservationId, record.ObservationId)
	assert.Equal(t, "Inception", record.ExtractedValues.MovieTitle)
	require.NotNil(t, record.ExtractedValues.AvgRating)
	assert.InDelta(t, 4.07, *record.ExtractedValues.AvgRating, 1e-9)
	require.NotNil(t, record.ExtractedValues.ReleaseYear)
	assert.InDelta(t, 2010, *record.ExtractedValues.ReleaseYear, 1e-9)

	assert.InDelta(t, 1.0, record.TruthfulnessScore, 1e-9)
	assert.InDelta(t, 1.0, record.GroundednessScore, 1e-9)

	require.NotNil(t, report.VariableMetrics.AvgRating)
	assert.InDelta(t, 1.0, report.VariableMetrics.AvgRating.ToleranceAccuracy, 1e-9)
	require.NotNil(t, report.VariableMetrics.ReleaseYear)
	assert.InDelta(t, 1.0, report.VariableMetrics.ReleaseYear.ExactAccuracy, 1e-9)
}

func TestRunAll_PanicBecomesFailedRecord(t *testing.T) {
	observation := core.GroundTruthDataset[0]

	pipeline, err := NewPipeline(&stubAnswerer{panics: true},
		WithDataset([]core.GroundTruthObservation{observation}))
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())
	require.Len(t, report.DetailedResults, 1)

	record := report.DetailedResults[0]
	assert.False(t, record.Success)
	assert.Equal(t, observation.ObservationId, record.ObservationId)
	assert.Contains(t, record.Error, "answerer exploded")

	assert.Zero(t, report.Summary.SuccessRate)
	assert.Zero(t, report.Summary.SuccessfulObservations)
}

func TestReportSave(t *testing.T) {
	pipeline, err := NewPipeline(nil, WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())

	path := filepath.Join(t.TempDir(), "evaluation_results.json")
	require.NoError(t, report.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, report.Summary.TotalObservations, loaded.Summary.TotalObservations)
	assert.Len(t, loaded.DetailedResults, 15)
}

func TestReportPrintSummary(t *testing.T) {
	pipeline, err := NewPipeline(nil)
	require.NoError(t, err)
	defer pipeline.Release()

	report := pipeline.RunAll(context.Background())

	var b strings.Builder
	report.PrintSummary(&b)
	out := b.String()

	assert.Contains(t, out, "MOVIE EVALUATION PIPELINE RESULTS")
	assert.Contains(t, out, "Total Observations: 15")
	assert.Contains(t, out, "Success Rate: 100.0%")
	assert.Contains(t, out, "MOVIE_TITLE:")
	assert.Contains(t, out, "Fuzzy Match Accuracy: 100.0%")
}
