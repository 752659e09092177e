package rag

import (
	"fmt"
	"strings"

	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/query"
)

// contextMovies caps how many retrieved movies are described to the model
// and echoed back to the caller.
const contextMovies = 5

// overviewLimit caps the plot excerpt included per movie.
const overviewLimit = 200

// buildContext renders the retrieved movies into the context block of the
// generation prompt.
func buildContext(text string, movies []*core.Movie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %s\n\n", text)
	b.WriteString("Relevant Movies:")

	for i, movie := range movies {
		if i >= contextMovies {
			break
		}
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, movie.Title)
		if movie.Year != 0 {
			fmt.Fprintf(&b, " (%d)", movie.Year)
		}
		if len(movie.Genres) > 0 {
			fmt.Fprintf(&b, " - Genres: %s", strings.Join(movie.Genres, ", "))
		}
		if movie.AvgRating != 0 {
			fmt.Fprintf(&b, " - Rating: %.1f", movie.AvgRating)
		}
		if movie.Overview != "" {
			fmt.Fprintf(&b, " - Plot: %s...", truncate(movie.Overview, overviewLimit))
		}
	}

	return b.String()
}

// buildPrompt assembles the full generation prompt from the query, its
// parsed intent, and the rendered movie context.
func buildPrompt(text string, intent query.Intent, movieContext string) string {
	return fmt.Sprintf(`You are a helpful movie recommendation assistant. Based on the user's query and the movie data provided, give a conversational and informative response.

User Query: %s
Intent: %s

Movie Data:
%s

Provide a natural, conversational response that directly addresses the user's question. Keep it concise but informative.`, text, intent, movieContext)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
