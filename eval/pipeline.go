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


package eval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/cinerag/core"
)

// Answerer produces a response and its supporting movies for one query.
// rag.Service satisfies this interface.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, []*core.Movie, error)
}

// Pipeline drives the fixed ground-truth observation set through answer
// generation, value extraction, and scoring. Observations are independent;
// a failure on one never aborts the batch.
type Pipeline struct {
	answerer Answerer
	scorer   *Scorer
	dataset  []core.GroundTruthObservation
	pool     *ants.Pool
	logger   *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent observation
// evaluation. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
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
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithDataset replaces the default ground-truth dataset.
func WithDataset(dataset []core.GroundTruthObservation) PipelineOption {
	return func(p *Pipeline) error {
		p.dataset = dataset
		return nil
	}
}

// WithScorer replaces the default scorer.
func WithScorer(scorer *Scorer) PipelineOption {
	return func(p *Pipeline) error {
		if scorer == nil {
			scorer = NewScorer()
		}
		p.scorer = scorer
		return nil
	}
}

// NewPipeline creates an evaluation pipeline. The answerer may be nil, in
// which case every observation takes the deterministic fallback path.
func NewPipeline(answerer Answerer, opts ...PipelineOption) (*Pipeline, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		answerer: answerer,
		scorer:   NewScorer(),
		dataset:  core.GroundTruthDataset,
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

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// RunAll evaluates every observation in the dataset and aggregates the
// outcomes into a report. All observations are always attempted.
func (p *Pipeline) RunAll(ctx context.Context) *Report {
	p.logger.Info("starting evaluation run", "observations", len(p.dataset))

	records := make([]*Record, len(p.dataset))
	var wg sync.WaitGroup

	for i := range p.dataset {
		i := i
		observation := p.dataset[i]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			records[i] = p.evaluateObservation(ctx, observation)
		})
		if err != nil {
			// Pool rejected the task; evaluate inline.
			records[i] = p.evaluateObservation(ctx, observation)
			wg.Done()
		}
	}
	wg.Wait()

	report := buildReport(records)
	p.logger.Info("evaluation run complete",
		"successful", report.Summary.SuccessfulObservations,
		"total", report.Summary.TotalObservations)
	return report
}

// evaluateObservation scores one observation. Panics anywhere in the answer,
// extraction, or scoring steps are converted into a failed record so the
// batch keeps going.
func (p *Pipeline) evaluateObservation(ctx context.Context, observation core.GroundTruthObservation) (record *Record) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("observation evaluation panicked",
				"observationId", observation.ObservationId, "panic", r)
			record = &Record{
				ObservationId: observation.ObservationId,
				Error:         fmt.Sprintf("%v", r),
				Success:       false,
			}
		}
	}()

	response, sources := p.answer(ctx, observation)
	extracted := p.extractValues(response, observation)

	truth := GroundTruth{
		MovieTitle:  observation.MovieTitle,
		AvgRating:   observation.AvgRating,
		ReleaseYear: observation.ReleaseYear,
	}

	results := &VariableResults{}
	if extracted.MovieTitle != "" {
		r := p.scorer.ScoreTitle(extracted.MovieTitle, truth.MovieTitle)
		results.MovieTitle = &r
	}
	if extracted.AvgRating != nil {
		r := p.scorer.ScoreNumeric(*extracted.AvgRating, truth.AvgRating, core.VariableAvgRating)
		results.AvgRating = &r
	}
	if extracted.ReleaseYear != nil {
		r := p.scorer.ScoreNumeric(*extracted.ReleaseYear, float64(truth.ReleaseYear), core.VariableReleaseYear)
		results.ReleaseYear = &r
	}

	return &Record{
		ObservationId:     observation.ObservationId,
		Query:             observation.Query,
		FocusVariable:     observation.FocusVariable,
		Response:          response,
		ExtractedValues:   &extracted,
		GroundTruth:       &truth,
		VariableResults:   results,
		GroundednessScore: p.scorer.ScoreGroundedness(response, sources),
		TruthfulnessScore: p.scorer.ScoreTruthfulness(extracted, truth),
		Success:           true,
	}
}

// answer obtains a generated response with its supporting movies, degrading
// to the deterministic fallback response with no sources on any failure.
func (p *Pipeline) answer(ctx context.Context, observation core.GroundTruthObservation) (string, []*core.Movie) {
	if p.answerer == nil {
		return fallbackAnswer(observation), nil
	}

	response, sources, err := p.answerer.Answer(ctx, observation.Query)
	if err != nil {
		p.logger.Warn("answer pipeline failed, using fallback",
			"observationId", observation.ObservationId, "err", err)
		return fallbackAnswer(observation), nil
	}
	return response, sources
}

func fallbackAnswer(observation core.GroundTruthObservation) string {
	return fmt.Sprintf("Information about %s", observation.MovieTitle)
}

// extractValues pulls the tracked field values out of a response: the
// expected title by case-insensitive containment, rating and year by the
// pattern cascades.
func (p *Pipeline) extractValues(response string, observation core.GroundTruthObservation) ExtractedValues {
	var extracted ExtractedValues

	if containsFold(response, observation.MovieTitle) {
		extracted.MovieTitle = observation.MovieTitle
	}
	if rating, ok := p.scorer.ExtractNumber(response, core.VariableAvgRating); ok {
		extracted.AvgRating = &rating
	}
	if year, ok := p.scorer.ExtractNumber(response, core.VariableReleaseYear); ok {
		extracted.ReleaseYear = &year
	}

	return extracted
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
