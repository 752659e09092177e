package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// buildReport folds the per-observation records into aggregate metrics.
// Failed records count toward the success rate but are excluded from every
// average.
func buildReport(records []*Record) *Report {
	report := &Report{
		Summary: Summary{
			TotalObservations:   len(records),
			EvaluationTimestamp: time.Now().UTC(),
		},
	}

	successful := make([]*Record, 0, len(records))
	for _, record := range records {
		report.DetailedResults = append(report.DetailedResults, record)
		if record.Success {
			successful = append(successful, record)
		}
	}

	report.Summary.SuccessfulObservations = len(successful)
	if len(records) > 0 {
		report.Summary.SuccessRate = float64(len(successful)) / float64(len(records))
	}
	if len(successful) == 0 {
		return report
	}

	var groundedness, truthfulness float64
	for _, record := range successful {
		groundedness += record.GroundednessScore
		truthfulness += record.TruthfulnessScore
	}
	report.Summary.AvgGroundednessScore = groundedness / float64(len(successful))
	report.Summary.AvgTruthfulnessScore = truthfulness / float64(len(successful))

	report.VariableMetrics.MovieTitle = aggregateTitles(successful)
	report.VariableMetrics.AvgRating = aggregateNumerics(successful, func(r *Record) *NumericResult {
		return r.VariableResults.AvgRating
	})
	report.VariableMetrics.ReleaseYear = aggregateNumerics(successful, func(r *Record) *NumericResult {
		return r.VariableResults.ReleaseYear
	})

	return report
}

func aggregateTitles(records []*Record) *TitleMetrics {
	var results []*TitleResult
	for _, record := range records {
		if record.VariableResults != nil && record.VariableResults.MovieTitle != nil {
			results = append(results, record.VariableResults.MovieTitle)
		}
	}
	if len(results) == 0 {
		return nil
	}

	metrics := &TitleMetrics{TotalTests: len(results)}
	exact, fuzzy := 0, 0
	var similarity float64
	for _, r := range results {
		if r.ExactMatch {
			exact++
		}
		if r.FuzzyMatch {
			fuzzy++
		}
		similarity += r.SimilarityScore
	}
	metrics.ExactAccuracy = float64(exact) / float64(len(results))
	metrics.FuzzyAccuracy = float64(fuzzy) / float64(len(results))
	metrics.AvgSimilarityScore = similarity / float64(len(results))
	return metrics
}

func aggregateNumerics(records []*Record, pick func(*Record) *NumericResult) *NumericMetrics {
	var results []*NumericResult
	for _, record := range records {
		if record.VariableResults == nil {
			continue
		}
		if r := pick(record); r != nil {
			results = append(results, r)
		}
	}
	if len(results) == 0 {
		return nil
	}

	metrics := &NumericMetrics{TotalTests: len(results)}
	exact, tolerance := 0, 0
	var errorRate float64
	for _, r := range results {
		if r.ExactMatch {
			exact++
		}
		if r.ToleranceMatch {
			tolerance++
		}
		errorRate += r.ErrorRate
	}
	metrics.ExactAccuracy = float64(exact) / float64(len(results))
	metrics.ToleranceAccuracy = float64(tolerance) / float64(len(results))
	metrics.AvgErrorRate = errorRate / float64(len(results))
	return metrics
}

// PrintSummary writes a human-readable summary of the report to w.
func (r *Report) PrintSummary(w io.Writer) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintln(w, "MOVIE EVALUATION PIPELINE RESULTS")
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "Total Observations: %d\n", r.Summary.TotalObservations)
	fmt.Fprintf(w, "Successful Evaluations: %d\n", r.Summary.SuccessfulObservations)
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", r.Summary.SuccessRate*100)
	fmt.Fprintf(w, "Average Groundedness: %.2f\n", r.Summary.AvgGroundednessScore)
	fmt.Fprintf(w, "Average Truthfulness: %.2f\n", r.Summary.AvgTruthfulnessScore)

	fmt.Fprintln(w, "\nVARIABLE-SPECIFIC METRICS:")
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if m := r.VariableMetrics.MovieTitle; m != nil {
		fmt.Fprintln(w, "\nMOVIE_TITLE:")
		fmt.Fprintf(w, "  Tests: %d\n", m.TotalTests)
		fmt.Fprintf(w, "  Exact Accuracy: %.1f%%\n", m.ExactAccuracy*100)
		fmt.Fprintf(w, "  Fuzzy Match Accuracy: %.1f%%\n", m.FuzzyAccuracy*100)
		fmt.Fprintf(w, "  Avg Similarity: %.2f\n", m.AvgSimilarityScore)
	}
	printNumericMetrics(w, "AVG_RATING", r.VariableMetrics.AvgRating)
	printNumericMetrics(w, "RELEASE_YEAR", r.VariableMetrics.ReleaseYear)

	fmt.Fprintf(w, "\n%s\n", rule)
}

func printNumericMetrics(w io.Writer, name string, m *NumericMetrics) {
	if m == nil {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", name)
	fmt.Fprintf(w, "  Tests: %d\n", m.TotalTests)
	fmt.Fprintf(w, "  Exact Accuracy: %.1f%%\n", m.ExactAccuracy*100)
	fmt.Fprintf(w, "  Tolerance Accuracy: %.1f%%\n", m.ToleranceAccuracy*100)
	fmt.Fprintf(w, "  Avg Error Rate: %.1f%%\n", m.AvgErrorRate*100)
}

// Save writes the report as indented JSON to the given path.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
