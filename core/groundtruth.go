package core

import "strings"

// GroundTruthDataset is the fixed evaluation dataset: 5 well-known movies
// with 3 focus variables each, 15 observations total. It is read-only
// configuration; callers must not mutate it.
var GroundTruthDataset = []GroundTruthObservation{
	// Movie title extraction focus
	{
		ObservationId: 1,
		Query:         "Tell me about the movie Inception",
		FocusVariable: VariableMovieTitle,
		MovieTitle:    "Inception",
		AvgRating:     4.07,
		ReleaseYear:   2010,
		SourceContext: "Inception (2010) is a sci-fi thriller directed by Christopher Nolan with rating 4.07/5",
	},
	{
		ObservationId: 2,
		Query:         "What do you know about Toy Story?",
		FocusVariable: VariableMovieTitle,
		MovieTitle:    "Toy Story",
		AvgRating:     3.92,
		ReleaseYear:   1995,
		SourceContext: "Toy Story (1995) is an animated film with rating 3.92/5 starring Tom Hanks",
	},
	{
		ObservationId: 3,
		Query:         "Give me info on The Matrix",
		FocusVariable: VariableMovieTitle,
		MovieTitle:    "The Matrix",
		AvgRating:     4.32,
		ReleaseYear:   1999,
		SourceContext: "The Matrix (1999) is an action sci-fi film with rating 4.32/5 starring Keanu Reeves",
	},
	{
		ObservationId: 4,
		Query:         "Describe the film Titanic",
		FocusVariable: VariableMovieTitle,
		MovieTitle:    "Titanic",
		AvgRating:     3.89,
		ReleaseYear:   1997,
		SourceContext: "Titanic (1997) is a romance drama film with rating 3.89/5 starring Leonardo DiCaprio",
	},
	{
		ObservationId: 5,
		Query:         "What about The Lion King movie?",
		FocusVariable: VariableMovieTitle,
		MovieTitle:    "The Lion King",
		AvgRating:     4.15,
		ReleaseYear:   1994,
		SourceContext: "The Lion King (1994) is an animated film with rating 4.15/5 from Disney",
	},

	// Average rating extraction focus
	{
		ObservationId: 6,
		Query:         "What is the rating of Inception?",
		FocusVariable: VariableAvgRating,
		MovieTitle:    "Inception",
		AvgRating:     4.07,
		ReleaseYear:   2010,
		SourceContext: "Inception has an average rating of 4.07 out of 5 stars from users",
	},
	{
		ObservationId: 7,
		Query:         "How good is Toy Story rated?",
		FocusVariable: VariableAvgRating,
		MovieTitle:    "Toy Story",
		AvgRating:     3.92,
		ReleaseYear:   1995,
		SourceContext: "Toy Story is rated 3.92/5 by moviegoers and critics",
	},
	{
		ObservationId: 8,
		Query:         "What's the score for The Matrix?",
		FocusVariable: VariableAvgRating,
		MovieTitle:    "The Matrix",
		AvgRating:     4.32,
		ReleaseYear:   1999,
		SourceContext: "The Matrix has a high rating of 4.32 out of 5 stars",
	},
	{
		ObservationId: 9,
		Query:         "How is Titanic rated by users?",
		FocusVariable: VariableAvgRating,
		MovieTitle:    "Titanic",
		AvgRating:     3.89,
		ReleaseYear:   1997,
		SourceContext: "Titanic received an average user rating of 3.89/5",
	},
	{
		ObservationId: 10,
		Query:         "What rating does The Lion King have?",
		FocusVariable: VariableAvgRating,
		MovieTitle:    "The Lion King",
		AvgRating:     4.15,
		ReleaseYear:   1994,
		SourceContext: "The Lion King has an excellent rating of 4.15 out of 5",
	},

	// Release year extraction focus
	{
		ObservationId: 11,
		Query:         "When was Inception released?",
		FocusVariable: VariableReleaseYear,
		MovieTitle:    "Inception",
		AvgRating:     4.07,
		ReleaseYear:   2010,
		SourceContext: "Inception was released in 2010 and became a blockbuster hit",
	},
	{
		ObservationId: 12,
		Query:         "What year did Toy Story come out?",
		FocusVariable: VariableReleaseYear,
		MovieTitle:    "Toy Story",
		AvgRating:     3.92,
		ReleaseYear:   1995,
		SourceContext: "Toy Story came out in 1995 as Pixar's first feature film",
	},
	{
		ObservationId: 13,
		Query:         "When was The Matrix made?",
		FocusVariable: VariableReleaseYear,
		MovieTitle:    "The Matrix",
		AvgRating:     4.32,
		ReleaseYear:   1999,
		SourceContext: "The Matrix was made and released in 1999 by the Wachowski sisters",
	},
	{
		ObservationId: 14,
		Query:         "What year was Titanic released?",
		FocusVariable: VariableReleaseYear,
		MovieTitle:    "Titanic",
		AvgRating:     3.89,
		ReleaseYear:   1997,
		SourceContext: "Titanic was released in 1997 and won multiple Academy Awards",
	},
	{
		ObservationId: 15,
		Query:         "When did The Lion King premiere?",
		FocusVariable: VariableReleaseYear,
		MovieTitle:    "The Lion King",
		AvgRating:     4.15,
		ReleaseYear:   1994,
		SourceContext: "The Lion King premiered in 1994 and became Disney's highest-grossing animated film",
	},
}

// GroundTruthByID returns the observation with the given ID, or nil.
func GroundTruthByID(observationId int) *GroundTruthObservation {
	for i := range GroundTruthDataset {
		if GroundTruthDataset[i].ObservationId == observationId {
			return &GroundTruthDataset[i]
		}
	}
	return nil
}

// GroundTruthByMovie returns all observations for a movie, matched
// case-insensitively by title.
func GroundTruthByMovie(movieTitle string) []GroundTruthObservation {
	var matched []GroundTruthObservation
	for _, obs := range GroundTruthDataset {
		if strings.EqualFold(obs.MovieTitle, movieTitle) {
			matched = append(matched, obs)
		}
	}
	return matched
}

// TestQueries returns the query text of every observation in dataset order.
func TestQueries() []string {
	queries := make([]string, len(GroundTruthDataset))
	for i, obs := range GroundTruthDataset {
		queries[i] = obs.Query
	}
	return queries
}
