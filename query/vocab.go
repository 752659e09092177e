package query

// Vocabulary carries the keyword sets and genre list the parser matches
// against. It is explicit configuration rather than hidden package state so
// tests can run with alternate vocabularies.
type Vocabulary struct {
	// Genres is the recognized genre vocabulary, in match-priority order.
	// Extracted genres preserve this order.
	Genres []string

	// RecommendationTerms trigger the recommendation intent.
	RecommendationTerms []string

	// InformationTerms trigger the information intent. They double as the
	// title-extraction prefixes ("tell me about X" and friends).
	InformationTerms []string

	// ComparisonTerms trigger the comparison intent.
	ComparisonTerms []string
}

// DefaultVocabulary returns the standard movie-query vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Genres: []string{
			"action", "adventure", "animation", "children", "comedy", "crime",
			"documentary", "drama", "fantasy", "horror", "musical", "mystery",
			"romance", "sci-fi", "thriller", "war", "western",
		},
		RecommendationTerms: []string{"recommend", "suggest", "find me", "show me"},
		InformationTerms:    []string{"tell me about", "what is", "describe", "info about"},
		ComparisonTerms:     []string{"compare"},
	}
}
