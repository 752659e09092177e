package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIntent(t *testing.T) {
	p := NewDefaultParser()

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"recommend", "recommend me a good movie", IntentRecommendation},
		{"suggest", "can you suggest something scary", IntentRecommendation},
		{"find me", "find me a comedy", IntentRecommendation},
		{"show me", "show me thrillers from 2019", IntentRecommendation},
		{"tell me about", "tell me about Inception", IntentInformation},
		{"what is", "what is The Matrix about", IntentInformation},
		{"describe", "describe Titanic", IntentInformation},
		{"compare", "compare Inception and The Matrix", IntentComparison},
		{"recommendation wins over information", "recommend something, then tell me about it", IntentRecommendation},
		{"information wins over comparison", "tell me about movies that compare dreams and reality", IntentInformation},
		{"general fallback", "movies with strong soundtracks", IntentGeneral},
		{"empty", "", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.text).Intent)
		})
	}
}

func TestExtractGenres(t *testing.T) {
	p := NewDefaultParser()

	t.Run("single", func(t *testing.T) {
		got := p.Parse("recommend a comedy movie").Params.Genres
		assert.Equal(t, []string{"comedy"}, got)
	})

	t.Run("multiple preserve vocabulary order", func(t *testing.T) {
		got := p.Parse("a thriller with action and some romance").Params.Genres
		assert.Equal(t, []string{"action", "romance", "thriller"}, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := p.Parse("any good Sci-Fi?").Params.Genres
		assert.Equal(t, []string{"sci-fi"}, got)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, p.Parse("something to watch tonight").Params.Genres)
	})
}

func TestExtractYear(t *testing.T) {
	p := NewDefaultParser()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"nineties", "movies from 1999", 1999},
		{"twenties", "best of 2020", 2020},
		{"first match wins", "from 1994 or maybe 2010", 1994},
		{"embedded digits ignored", "movie id 12345 please", 0},
		{"no year", "a rainy day movie", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.text).Params.Year)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	p := NewDefaultParser()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"tell me about", "tell me about Inception", "Inception"},
		{"question mark terminates", "what is The Matrix?", "The Matrix"},
		{"mixed case prefix", "Tell me about Toy Story", "Toy Story"},
		{"describe", "describe The Lion King", "The Lion King"},
		{"casing preserved", "tell me about tHe MaTrIx", "tHe MaTrIx"},
		{"no prefix", "Inception was great", ""},
		{"prefix with nothing after", "tell me about ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.text).Params.Title)
		})
	}

	t.Run("only information intent extracts a title", func(t *testing.T) {
		parsed := p.Parse("recommend a movie and tell me about Inception")
		assert.Equal(t, IntentRecommendation, parsed.Intent)
		assert.Empty(t, parsed.Params.Title)

		parsed = p.Parse("show me what is The Matrix")
		assert.Equal(t, IntentRecommendation, parsed.Intent)
		assert.Empty(t, parsed.Params.Title)
	})
}

func TestExtractMinRating(t *testing.T) {
	p := NewDefaultParser()

	t.Run("with decimal", func(t *testing.T) {
		params := p.Parse("movies with rating above 4.5").Params
		require.True(t, params.HasMinRating)
		assert.InDelta(t, 4.5, params.MinRating, 1e-9)
	})

	t.Run("integer", func(t *testing.T) {
		params := p.Parse("rating of 4 or better").Params
		require.True(t, params.HasMinRating)
		assert.InDelta(t, 4.0, params.MinRating, 1e-9)
	})

	t.Run("absent", func(t *testing.T) {
		params := p.Parse("something highly rated").Params
		assert.False(t, params.HasMinRating)
		assert.Zero(t, params.MinRating)
	})
}

func TestParseCombined(t *testing.T) {
	p := NewDefaultParser()

	parsed := p.Parse("recommend an action movie from 2018 with rating above 4")
	assert.Equal(t, IntentRecommendation, parsed.Intent)
	assert.Equal(t, []string{"action"}, parsed.Params.Genres)
	assert.Equal(t, 2018, parsed.Params.Year)
	require.True(t, parsed.Params.HasMinRating)
	assert.InDelta(t, 4.0, parsed.Params.MinRating, 1e-9)
	assert.Empty(t, parsed.Params.Title)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "recommendation", IntentRecommendation.String())
	assert.Equal(t, "information", IntentInformation.String())
	assert.Equal(t, "comparison", IntentComparison.String())
	assert.Equal(t, "general", IntentGeneral.String())
}
