// Package eval quantifies answer quality against a fixed ground-truth
// dataset of movie facts.
//
// The Scorer provides pure comparison functions: categorical title matching
// with an edit-similarity ratio, numeric matching with a relative-error
// tolerance for ratings and exact matching for years, regular-expression
// number extraction, and response-level groundedness and truthfulness
// metrics. The Pipeline drives the full observation set through answer
// generation, extraction, and scoring, then folds the per-observation
// records into an aggregate report. Every failure mode degrades to a
// fallback value or a per-observation error record; a run never aborts.
package eval
