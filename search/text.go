package search

import "strings"

// keywordScore computes the raw lexical overlap score between a lower-cased
// query and a lower-cased document text:
//
//   - +10 when the full query occurs verbatim in the document
//   - +2 per occurrence of each whitespace-split query term in the document
//   - +3 per configured genre term shared by query and document
//   - +5 when any configured recent year is shared by query and document
//
// The caller normalizes by dividing by 20 and clamping to 1.0.
func keywordScore(queryLower, docLower string, ind Indicators) float64 {
	var raw float64

	if strings.Contains(docLower, queryLower) {
		raw += 10
	}

	for _, term := range strings.Fields(queryLower) {
		raw += 2 * float64(strings.Count(docLower, term))
	}

	for _, genre := range ind.GenreTerms {
		if strings.Contains(queryLower, genre) && strings.Contains(docLower, genre) {
			raw += 3
		}
	}

	for _, year := range ind.RecentYears {
		if strings.Contains(queryLower, year) && strings.Contains(docLower, year) {
			raw += 5
			break
		}
	}

	return raw
}
