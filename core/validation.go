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


package core

import "fmt"

// Year bounds accepted for catalog records and numeric extraction.
const (
	MinYear = 1900
	MaxYear = 2030
)

// Rating bounds of the 0-5 user rating scale.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// ValidateMovie validates a Movie according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Year, when set, must be within [MinYear, MaxYear]
//   - AvgRating must be within [MinRating, MaxRating]
//
// NOT validated (populated by processors):
//   - Content and Vector (can be empty until ingestion runs)
//   - ID (0 is valid; content-based IDs are assigned on insert)
func ValidateMovie(movie *Movie) error {
	if movie == nil {
		return fmt.Errorf("%w: movie is nil", ErrInvalidMovie)
	}

	if movie.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrEmptyTitle)
	}

	if movie.Year != 0 && (movie.Year < MinYear || movie.Year > MaxYear) {
		return fmt.Errorf("%w: %w: %d", ErrInvalidMovie, ErrInvalidYear, movie.Year)
	}

	if movie.AvgRating < MinRating || movie.AvgRating > MaxRating {
		return fmt.Errorf("%w: %w: %g", ErrInvalidMovie, ErrInvalidRating, movie.AvgRating)
	}

	return nil
}

// ValidateObservation validates a GroundTruthObservation according to domain rules.
func ValidateObservation(obs *GroundTruthObservation) error {
	if obs == nil {
		return fmt.Errorf("%w: observation is nil", ErrInvalidObservation)
	}

	if obs.MovieTitle == "" {
		return fmt.Errorf("%w: %w", ErrInvalidObservation, ErrEmptyTitle)
	}

	switch obs.FocusVariable {
	case VariableMovieTitle, VariableAvgRating, VariableReleaseYear:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidObservation, ErrInvalidFocusVariable, obs.FocusVariable)
	}

	if obs.ReleaseYear < MinYear || obs.ReleaseYear > MaxYear {
		return fmt.Errorf("%w: %w: %d", ErrInvalidObservation, ErrInvalidYear, obs.ReleaseYear)
	}

	if obs.AvgRating < MinRating || obs.AvgRating > MaxRating {
		return fmt.Errorf("%w: %w: %g", ErrInvalidObservation, ErrInvalidRating, obs.AvgRating)
	}

	return nil
}
