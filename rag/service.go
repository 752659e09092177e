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


package rag

import (
	"context"
	"log/slog"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/query"
	"github.com/poiesic/cinerag/search"
)

// retrievalLimit is how many candidates are pulled from the searcher per query.
const retrievalLimit = 10

// Result is the complete answer to one movie query.
type Result struct {
	// Response is the generated (or fallback) answer text.
	Response string

	// Movies are the top retrieved movies backing the answer.
	Movies []*core.Movie

	// Method is the retrieval strategy that served the query.
	Method search.Method

	// TotalFound is the number of candidates retrieved before truncation.
	TotalFound int

	// Generated reports whether Response came from the generation backend.
	// False means the deterministic fallback was used.
	Generated bool
}

// Service answers movie queries by retrieving candidates and generating a
// conversational response over them. Generation failures degrade to a
// deterministic fallback built from the retrieved movies, never an error.
type Service struct {
	searcher  *search.Searcher
	generator ai.Generator
	parser    *query.Parser
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new RAG service. The provider may be nil, in which
// case every response is built by the deterministic fallback.
func NewService(
	searcher *search.Searcher,
	provider ai.AIProvider,
	parser *query.Parser,
	opts ...Option,
) (*Service, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if parser == nil {
		parser = query.NewDefaultParser()
	}

	s := &Service{
		searcher: searcher,
		parser:   parser,
		logger:   slog.Default(),
	}
	if provider != nil {
		s.generator = provider.Generator()
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ProcessQuery runs the full pipeline for one query: retrieve candidates,
// build a context over the top results, and generate a response.
func (s *Service) ProcessQuery(ctx context.Context, text string) (*Result, error) {
	s.logger.Info("processing query", "query", text)

	retrieved, method, err := s.searcher.Retrieve(ctx, text, retrievalLimit)
	if err != nil {
		s.logger.Error("retrieval failed", "query", text, "err", err)
		return nil, err
	}

	movies := make([]*core.Movie, 0, len(retrieved))
	for _, r := range retrieved {
		if r.Movie != nil {
			movies = append(movies, r.Movie)
		}
	}

	top := movies
	if len(top) > contextMovies {
		top = top[:contextMovies]
	}

	intent := s.parser.Parse(text).Intent
	response, generated := s.generate(ctx, text, intent, top)

	return &Result{
		Response:   response,
		Movies:     top,
		Method:     method,
		TotalFound: len(movies),
		Generated:  generated,
	}, nil
}

// Answer runs ProcessQuery and returns just the response text with the
// movies that backed it.
func (s *Service) Answer(ctx context.Context, text string) (string, []*core.Movie, error) {
	result, err := s.ProcessQuery(ctx, text)
	if err != nil {
		return "", nil, err
	}
	return result.Response, result.Movies, nil
}

// generate asks the generation backend for a response, falling back to the
// deterministic answer on any failure.
func (s *Service) generate(ctx context.Context, text string, intent query.Intent, movies []*core.Movie) (string, bool) {
	if s.generator == nil {
		return fallbackResponse(intent, movies), false
	}

	prompt := buildPrompt(text, intent, buildContext(text, movies))
	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, using fallback response", "query", text, "err", err)
		return fallbackResponse(intent, movies), false
	}
	return response, true
}
