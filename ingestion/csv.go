package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/cinerag/core"
)

// noGenres is the MovieLens placeholder for movies without genre tags.
const noGenres = "(no genres listed)"

// LoadCatalog reads a MovieLens-style movie catalog. The movies file carries
// movieId,title,genres rows with the release year embedded in the title and
// genres pipe-separated. The ratings file (userId,movieId,rating,timestamp)
// is optional; when given, each movie's AvgRating is the mean of its ratings.
func LoadCatalog(moviesPath, ratingsPath string) ([]*core.Movie, error) {
	movies, err := loadMovies(moviesPath)
	if err != nil {
		return nil, err
	}

	if ratingsPath != "" {
		averages, err := loadRatingAverages(ratingsPath)
		if err != nil {
			return nil, err
		}
		for _, movie := range movies {
			if avg, ok := averages[movie.Id]; ok {
				movie.AvgRating = avg
			}
		}
	}

	return movies, nil
}

func loadMovies(path string) ([]*core.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening movies file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	// Header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedCatalog, path, err)
	}

	var movies []*core.Movie
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedCatalog, path, err)
		}

		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad movie id %q", ErrMalformedCatalog, path, row[0])
		}

		title, year := splitTitleYear(row[1])
		movies = append(movies, &core.Movie{
			Id:     core.ID(id),
			Title:  title,
			Year:   year,
			Genres: splitGenres(row[2]),
		})
	}

	return movies, nil
}

// splitTitleYear strips a trailing " (YYYY)" from a MovieLens title.
// Titles without a parseable year suffix are returned whole with year 0.
func splitTitleYear(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, " (")
	if idx < 0 || !strings.HasSuffix(raw, ")") {
		return raw, 0
	}

	year, err := strconv.Atoi(raw[idx+2 : len(raw)-1])
	if err != nil || year < core.MinYear || year > core.MaxYear {
		return raw, 0
	}
	return raw[:idx], year
}

func splitGenres(raw string) []string {
	if raw == "" || raw == noGenres {
		return nil
	}
	var genres []string
	for _, genre := range strings.Split(raw, "|") {
		if genre != "" && genre != noGenres {
			genres = append(genres, genre)
		}
	}
	return genres
}

func loadRatingAverages(path string) (map[core.ID]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ratings file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedCatalog, path, err)
	}

	sums := make(map[core.ID]float64)
	counts := make(map[core.ID]int)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedCatalog, path, err)
		}

		id, err := strconv.ParseUint(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad movie id %q", ErrMalformedCatalog, path, row[1])
		}
		rating, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad rating %q", ErrMalformedCatalog, path, row[2])
		}

		sums[core.ID(id)] += rating
		counts[core.ID(id)]++
	}

	averages := make(map[core.ID]float64, len(sums))
	for id, sum := range sums {
		averages[id] = sum / float64(counts[id])
	}
	return averages, nil
}
