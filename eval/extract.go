package eval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// Extraction pattern cascades, tried first-match-wins. Labeled patterns come
// before the bare-number fallback; a match outside the domain range rejects
// the whole pattern and the cascade moves on.
var (
	ratingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`rating.*?(\d+\.?\d*)`),
		regexp.MustCompile(`rated.*?(\d+\.?\d*)`),
		regexp.MustCompile(`score.*?(\d+\.?\d*)`),
		regexp.MustCompile(`(\d+\.?\d*)\s*(?:/5|out of 5|stars?)`),
		regexp.MustCompile(`(\d+\.?\d*)`),
	}

	yearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:released|made|came out).*?(\d{4})`),
		regexp.MustCompile(`(\d{4})`),
	}
)

// ExtractNumber pulls a domain-valid number for the given variable out of
// free text. Returns false when no pattern yields an in-range value.
func (s *Scorer) ExtractNumber(text, variable string) (float64, bool) {
	lower := strings.ToLower(text)

	switch variable {
	case core.VariableAvgRating:
		return firstInRange(lower, ratingPatterns, core.MinRating, core.MaxRating)
	case core.VariableReleaseYear:
		return firstInRange(lower, yearPatterns, core.MinYear, core.MaxYear)
	default:
		return 0, false
	}
}

func firstInRange(text string, patterns []*regexp.Regexp, min, max float64) (float64, bool) {
	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if value >= min && value <= max {
			return value, true
		}
	}
	return 0, false
}
