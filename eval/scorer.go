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
	"math"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// Default thresholds of the scorer.
const (
	defaultTolerance = 0.05
	fuzzyThreshold   = 0.8
	keyTermMinLen    = 3
	keyTermLimit     = 10
)

// Scorer compares predicted values against ground truth. All methods are
// pure; malformed input yields a zeroed "could not score" result, never an
// error.
type Scorer struct {
	tolerance float64
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithTolerance sets the relative-error bound for rating tolerance matches.
// Default is 0.05.
func WithTolerance(tolerance float64) ScorerOption {
	return func(s *Scorer) {
		s.tolerance = tolerance
	}
}

// NewScorer creates a scorer with the default 5% rating tolerance.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{tolerance: defaultTolerance}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreTitle compares a predicted title against the actual one. Either side
// empty yields an all-false zero result.
func (s *Scorer) ScoreTitle(predicted, actual string) TitleResult {
	if predicted == "" || actual == "" {
		return TitleResult{}
	}

	predClean := strings.ToLower(strings.TrimSpace(predicted))
	actualClean := strings.ToLower(strings.TrimSpace(actual))

	similarity := sequenceSimilarity(predClean, actualClean)

	return TitleResult{
		ExactMatch:      predClean == actualClean,
		SimilarityScore: similarity,
		TokenOverlap:    tokenOverlap(predClean, actualClean),
		FuzzyMatch:      similarity >= fuzzyThreshold,
	}
}

// tokenOverlap is the fraction of actual's whitespace tokens also present in
// predicted. Handles partial titles like "Matrix" vs "The Matrix".
func tokenOverlap(predicted, actual string) float64 {
	actualTokens := strings.Fields(actual)
	if len(actualTokens) == 0 {
		return 0.0
	}

	predSet := make(map[string]bool)
	for _, token := range strings.Fields(predicted) {
		predSet[token] = true
	}

	shared := 0
	seen := make(map[string]bool)
	for _, token := range actualTokens {
		if seen[token] {
			continue
		}
		seen[token] = true
		if predSet[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(seen))
}

// ScoreNumeric compares a predicted number against the actual one. Ratings
// tolerate a relative error up to the configured bound; years must match
// exactly.
func (s *Scorer) ScoreNumeric(predicted, actual float64, variable string) NumericResult {
	result := NumericResult{
		PredictedValue: &predicted,
		ActualValue:    actual,
		ExactMatch:     predicted == actual,
	}

	if variable == core.VariableAvgRating {
		if actual != 0 {
			result.ErrorRate = math.Abs(predicted-actual) / actual
		} else {
			result.ErrorRate = 1.0
		}
		result.ToleranceMatch = result.ErrorRate <= s.tolerance
	} else {
		result.ToleranceMatch = result.ExactMatch
		if !result.ExactMatch {
			result.ErrorRate = 1.0
		}
	}

	return result
}

// ScoreNumericText extracts a number from free text and scores it against
// the actual value. A failed extraction yields extraction_failed with a full
// error rate.
func (s *Scorer) ScoreNumericText(text string, actual float64, variable string) NumericResult {
	predicted, ok := s.ExtractNumber(text, variable)
	if !ok {
		return NumericResult{
			ErrorRate:        1.0,
			ActualValue:      actual,
			ExtractionFailed: true,
		}
	}
	return s.ScoreNumeric(predicted, actual, variable)
}

// ScoreGroundedness measures how much of the response is anchored in the
// source movies: the fraction of sources contributing at least one key term
// to the response. Key terms are a source's first ten tokens longer than
// three characters.
func (s *Scorer) ScoreGroundedness(response string, sources []*core.Movie) float64 {
	if response == "" || len(sources) == 0 {
		return 0.0
	}

	responseLower := strings.ToLower(response)
	grounded := 0

	for _, source := range sources {
		text := source.Content
		if text == "" {
			text = source.Title
		}
		if text == "" {
			continue
		}

		if anyKeyTermIn(responseLower, strings.ToLower(text)) {
			grounded++
		}
	}

	return float64(grounded) / float64(len(sources))
}

func anyKeyTermIn(response, source string) bool {
	taken := 0
	for _, term := range strings.Fields(source) {
		if len(term) <= keyTermMinLen {
			continue
		}
		if strings.Contains(response, term) {
			return true
		}
		taken++
		if taken >= keyTermLimit {
			break
		}
	}
	return false
}

// ScoreTruthfulness is the fraction of ground-truth fields the extracted
// values get right across all three tracked fields. Fields absent from the
// extraction count as wrong, not skipped.
func (s *Scorer) ScoreTruthfulness(extracted ExtractedValues, truth GroundTruth) float64 {
	if truth == (GroundTruth{}) {
		return 0.0
	}

	correct := 0
	const totalFields = 3

	if extracted.MovieTitle != "" && s.ScoreTitle(extracted.MovieTitle, truth.MovieTitle).FuzzyMatch {
		correct++
	}
	if extracted.AvgRating != nil && s.ScoreNumeric(*extracted.AvgRating, truth.AvgRating, core.VariableAvgRating).ToleranceMatch {
		correct++
	}
	if extracted.ReleaseYear != nil && s.ScoreNumeric(*extracted.ReleaseYear, float64(truth.ReleaseYear), core.VariableReleaseYear).ToleranceMatch {
		correct++
	}

	return float64(correct) / float64(totalFields)
}
