package eval

import "time"

// TitleResult is the scoring outcome for a categorical title field.
type TitleResult struct {
	ExactMatch      bool    `json:"exact_match"`
	SimilarityScore float64 `json:"similarity_score"`
	TokenOverlap    float64 `json:"token_overlap"`
	FuzzyMatch      bool    `json:"fuzzy_match"`
}

// NumericResult is the scoring outcome for a numeric field (rating or year).
type NumericResult struct {
	ExactMatch       bool     `json:"exact_match"`
	ToleranceMatch   bool     `json:"tolerance_match"`
	ErrorRate        float64  `json:"error_rate"`
	PredictedValue   *float64 `json:"predicted_value"`
	ActualValue      float64  `json:"actual_value"`
	ExtractionFailed bool     `json:"extraction_failed"`
}

// ExtractedValues holds the field values pulled out of a generated response.
// Nil pointers and an empty title mean the field was not found.
type ExtractedValues struct {
	MovieTitle  string   `json:"movie_title,omitempty"`
	AvgRating   *float64 `json:"avg_rating,omitempty"`
	ReleaseYear *float64 `json:"release_year,omitempty"`
}

// GroundTruth is the known-correct value set for one observation.
type GroundTruth struct {
	MovieTitle  string  `json:"movie_title"`
	AvgRating   float64 `json:"avg_rating"`
	ReleaseYear int     `json:"release_year"`
}

// VariableResults holds the per-field scoring outcomes present on one record.
type VariableResults struct {
	MovieTitle  *TitleResult   `json:"movie_title,omitempty"`
	AvgRating   *NumericResult `json:"avg_rating,omitempty"`
	ReleaseYear *NumericResult `json:"release_year,omitempty"`
}

// Record is the full evaluation outcome for one observation. A failed record
// carries only the observation id and the error text.
type Record struct {
	ObservationId     int              `json:"observation_id"`
	Query             string           `json:"query,omitempty"`
	FocusVariable     string           `json:"focus_variable,omitempty"`
	Response          string           `json:"llm_response,omitempty"`
	ExtractedValues   *ExtractedValues `json:"extracted_values,omitempty"`
	GroundTruth       *GroundTruth     `json:"ground_truth,omitempty"`
	VariableResults   *VariableResults `json:"variable_results,omitempty"`
	GroundednessScore float64          `json:"groundedness_score"`
	TruthfulnessScore float64          `json:"truthfulness_score"`
	Success           bool             `json:"success"`
	Error             string           `json:"error,omitempty"`
}

// TitleMetrics aggregates categorical scoring outcomes across observations.
type TitleMetrics struct {
	TotalTests         int     `json:"total_tests"`
	ExactAccuracy      float64 `json:"exact_accuracy"`
	FuzzyAccuracy      float64 `json:"fuzzy_accuracy"`
	AvgSimilarityScore float64 `json:"avg_similarity_score"`
}

// NumericMetrics aggregates numeric scoring outcomes across observations.
type NumericMetrics struct {
	TotalTests        int     `json:"total_tests"`
	ExactAccuracy     float64 `json:"exact_accuracy"`
	ToleranceAccuracy float64 `json:"tolerance_accuracy"`
	AvgErrorRate      float64 `json:"avg_error_rate"`
}

// VariableMetrics groups the per-field aggregate tables of one report.
type VariableMetrics struct {
	MovieTitle  *TitleMetrics   `json:"movie_title,omitempty"`
	AvgRating   *NumericMetrics `json:"avg_rating,omitempty"`
	ReleaseYear *NumericMetrics `json:"release_year,omitempty"`
}

// Summary holds the run-level counts and averages of one report.
type Summary struct {
	TotalObservations      int       `json:"total_observations"`
	SuccessfulObservations int       `json:"successful_observations"`
	SuccessRate            float64   `json:"success_rate"`
	AvgGroundednessScore   float64   `json:"avg_groundedness_score"`
	AvgTruthfulnessScore   float64   `json:"avg_truthfulness_score"`
	EvaluationTimestamp    time.Time `json:"evaluation_timestamp"`
}

// Report is the complete output of one evaluation run.
type Report struct {
	Summary         Summary         `json:"summary"`
	VariableMetrics VariableMetrics `json:"variable_metrics"`
	DetailedResults []*Record       `json:"detailed_results"`
}
