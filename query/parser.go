// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Intent classifies what a query is asking for.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentRecommendation
	IntentInformation
	IntentComparison
)

func (i Intent) String() string {
	switch i {
	case IntentRecommendation:
		return "recommendation"
	case IntentInformation:
		return "information"
	case IntentComparison:
		return "comparison"
	default:
		return "general"
	}
}

// Params holds the structured parameters extracted from a query.
// Zero values mean the parameter was absent, except MinRating, which
// carries an explicit presence flag since 0 is a valid rating.
type Params struct {
	Genres       []string
	Year         int
	Title        string
	MinRating    float64
	HasMinRating bool
}

// ParsedQuery is the full result of parsing one query.
type ParsedQuery struct {
	Intent Intent
	Params Params
}

// Parser extracts intent and parameters from free-text movie queries.
// It is deterministic and never fails: unrecognized input parses as a
// general-intent query with empty parameters.
type Parser struct {
	vocab         Vocabulary
	titlePatterns []*regexp.Regexp
	yearPattern   *regexp.Regexp
	ratingPattern *regexp.Regexp
}

// NewParser builds a parser over the given vocabulary, compiling the
// title-extraction patterns from its information terms.
func NewParser(vocab Vocabulary) (*Parser, error) {
	p := &Parser{
		vocab:         vocab,
		yearPattern:   regexp.MustCompile(`\b(19|20)\d{2}\b`),
		ratingPattern: regexp.MustCompile(`rating.{0,10}(\d+(?:\.\d+)?)`),
	}
	for _, prefix := range vocab.InformationTerms {
		re, err := regexp.Compile(regexp.QuoteMeta(prefix) + ` (.+?)(?:\?|$)`)
		if err != nil {
			return nil, fmt.Errorf("compiling title pattern for %q: %w", prefix, err)
		}
		p.titlePatterns = append(p.titlePatterns, re)
	}
	return p, nil
}

// NewDefaultParser builds a parser over DefaultVocabulary.
func NewDefaultParser() *Parser {
	p, err := NewParser(DefaultVocabulary())
	if err != nil {
		panic(err)
	}
	return p
}

// Parse extracts the intent and parameters from text. Matching is
// case-insensitive; extracted titles preserve the original casing.
func (p *Parser) Parse(text string) ParsedQuery {
	lower := strings.ToLower(text)
	parsed := ParsedQuery{Intent: p.classify(lower)}
	parsed.Params.Genres = p.extractGenres(lower)
	parsed.Params.Year = p.extractYear(lower)
	if parsed.Intent == IntentInformation {
		parsed.Params.Title = p.extractTitle(text, lower)
	}
	parsed.Params.MinRating, parsed.Params.HasMinRating = p.extractMinRating(lower)
	return parsed
}

func (p *Parser) classify(lower string) Intent {
	for _, term := range p.vocab.RecommendationTerms {
		if strings.Contains(lower, term) {
			return IntentRecommendation
		}
	}
	for _, term := range p.vocab.InformationTerms {
		if strings.Contains(lower, term) {
			return IntentInformation
		}
	}
	for _, term := range p.vocab.ComparisonTerms {
		if strings.Contains(lower, term) {
			return IntentComparison
		}
	}
	return IntentGeneral
}

func (p *Parser) extractGenres(lower string) []string {
	var genres []string
	for _, genre := range p.vocab.Genres {
		if strings.Contains(lower, genre) {
			genres = append(genres, genre)
		}
	}
	return genres
}

func (p *Parser) extractYear(lower string) int {
	match := p.yearPattern.FindString(lower)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// extractTitle matches each information prefix against the lowercased text,
// then slices the original text at the same offsets so the title keeps the
// caller's casing.
func (p *Parser) extractTitle(text, lower string) string {
	for _, re := range p.titlePatterns {
		loc := re.FindStringSubmatchIndex(lower)
		if loc == nil {
			continue
		}
		title := strings.TrimSpace(text[loc[2]:loc[3]])
		if title != "" {
			return title
		}
	}
	return ""
}

func (p *Parser) extractMinRating(lower string) (float64, bool) {
	m := p.ratingPattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	rating, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return rating, true
}
