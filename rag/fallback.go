package rag

import (
	"fmt"
	"strings"

	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/query"
)

// fallbackResponse builds a deterministic answer from the retrieved movies
// when the generation backend is unavailable. It is keyed on the parsed
// intent so the shape of the answer still fits the question.
func fallbackResponse(intent query.Intent, movies []*core.Movie) string {
	switch intent {
	case query.IntentInformation:
		if len(movies) == 0 {
			return "I couldn't find information about that movie."
		}
		return describeMovie(movies[0])
	case query.IntentRecommendation:
		if len(movies) == 0 {
			return "I couldn't find any movies matching your criteria. Try adjusting your search parameters."
		}
		return recommendMovies(movies)
	default:
		if len(movies) > 0 {
			return recommendMovies(movies)
		}
		return "I found some movies that might interest you. Let me know if you'd like more specific recommendations!"
	}
}

func recommendMovies(movies []*core.Movie) string {
	titles := make([]string, 0, contextMovies)
	for i, movie := range movies {
		if i >= contextMovies {
			break
		}
		titles = append(titles, movie.Title)
	}
	return fmt.Sprintf("Based on your request, I recommend these movies: %s. These movies match your criteria and have good ratings.", strings.Join(titles, ", "))
}

func describeMovie(movie *core.Movie) string {
	year := "Unknown year"
	if movie.Year != 0 {
		year = fmt.Sprintf("%d", movie.Year)
	}
	rating := "N/A"
	if movie.AvgRating != 0 {
		rating = fmt.Sprintf("%.2f", movie.AvgRating)
	}
	return fmt.Sprintf("%s (%s) is a %s movie with an average rating of %s.", movie.Title, year, strings.Join(movie.Genres, ", "), rating)
}
