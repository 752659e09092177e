package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// BuildMovieContent renders a movie into the document text that gets
// embedded. Empty fields are skipped.
func BuildMovieContent(movie *core.Movie) string {
	var parts []string

	if movie.Title != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", movie.Title))
	}
	if len(movie.Genres) > 0 {
		parts = append(parts, fmt.Sprintf("Genres: %s", strings.Join(movie.Genres, ", ")))
	}
	if movie.Overview != "" {
		parts = append(parts, fmt.Sprintf("Plot: %s", movie.Overview))
	}
	if movie.Year != 0 {
		parts = append(parts, fmt.Sprintf("Year: %d", movie.Year))
	}
	if movie.AvgRating != 0 {
		parts = append(parts, fmt.Sprintf("Rating: %.2f", movie.AvgRating))
	}

	return strings.Join(parts, ". ")
}
