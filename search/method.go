package search

// Method identifies the retrieval strategy chosen for a query.
type Method int

const (
	MethodDatabase Method = iota
	MethodSemantic
	MethodHybrid
)

func (m Method) String() string {
	switch m {
	case MethodSemantic:
		return "semantic"
	case MethodHybrid:
		return "hybrid"
	default:
		return "database"
	}
}

// Indicators carries the term lists driving method routing and keyword
// scoring. Explicit configuration rather than package-level constants so
// tests can substitute alternate vocabularies.
type Indicators struct {
	// Semantic terms route a query to pure nearest-neighbor search.
	// Checked before Hybrid; a query matching both routes semantic.
	Semantic []string

	// Hybrid terms route a query to fused semantic+keyword ranking.
	Hybrid []string

	// GenreTerms earn a keyword bonus when shared by query and document.
	GenreTerms []string

	// RecentYears earn a single keyword bonus when any is shared by query
	// and document.
	RecentYears []string
}

// DefaultIndicators returns the standard routing and scoring vocabulary.
func DefaultIndicators() Indicators {
	return Indicators{
		Semantic:    []string{"like", "similar", "theme", "plot", "story", "about"},
		Hybrid:      []string{"recommend", "suggest", "find", "good"},
		GenreTerms:  []string{"action", "comedy", "drama", "thriller", "romance", "sci-fi"},
		RecentYears: []string{"2020", "2019", "2018", "2017"},
	}
}
