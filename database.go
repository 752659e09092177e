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


package cinerag

import (
	"io"
	"log/slog"

	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/ai/openai"
	"github.com/poiesic/cinerag/eval"
	"github.com/poiesic/cinerag/ingestion"
	"github.com/poiesic/cinerag/rag"
	"github.com/poiesic/cinerag/reembed"
	"github.com/poiesic/cinerag/search"
	"github.com/poiesic/cinerag/storage"
	"github.com/poiesic/cinerag/storage/badger"
)

// Database bundles the movie catalog, the AI provider, and factories for the
// pipelines built on them.
type Database struct {
	backend   *badger.Backend
	movieRepo storage.MovieRepository
	provider  ai.AIProvider
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create movie repository
	movieRepo, err := badger.NewMovieRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:   backend,
		movieRepo: movieRepo,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MovieRepository() storage.MovieRepository {
	return db.movieRepo
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.movieRepo, db.provider, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.movieRepo, db.provider, nil, opts...)
}

func (db *Database) NewRAGService(opts ...rag.Option) (*rag.Service, error) {
	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}
	return rag.NewService(searcher, db.provider, nil, opts...)
}

func (db *Database) NewEvaluationPipeline(opts ...eval.PipelineOption) (*eval.Pipeline, error) {
	service, err := db.NewRAGService()
	if err != nil {
		return nil, err
	}
	return eval.NewPipeline(service, opts...)
}

// NewReembedder creates a reembedder writing progress to the given writer.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(db.movieRepo, db.provider.Embedder(), config, progress)
}
