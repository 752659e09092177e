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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/cinerag"
	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/ingestion"
	"github.com/poiesic/cinerag/reembed"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cinerag",
		Usage: "Movie catalog with hybrid retrieval, generated answers, and evaluation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load a MovieLens catalog and embed it",
				Action: seedCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "movies",
						Usage:    "Path to movies.csv",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ratings",
						Usage: "Path to ratings.csv (optional)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Answer a movie question",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags:     databaseFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embedding vectors for the catalog",
				Action: reembedCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of movies to embed per batch",
						Value: 100,
					},
					&cli.BoolFlag{
						Name:  "missing-only",
						Usage: "Only embed movies that have no vector yet",
					},
				),
			},
			{
				Name:   "evaluate",
				Usage:  "Run the ground-truth evaluation and print the report",
				Action: evaluateCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the full report as JSON to this path",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generation model name",
			Value: "llama3.1:8b",
		},
		&cli.DurationFlag{
			Name:  "generation-timeout",
			Usage: "Timeout for a single generation call",
			Value: 60 * time.Second,
		},
	}
}

func openDatabase(c *cli.Context) (*cinerag.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
		ai.WithGenerationTimeout(c.Duration("generation-timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := cinerag.NewDatabase(c.String("db"), cinerag.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Movies: %s\n", c.String("movies"))
	if ratings := c.String("ratings"); ratings != "" {
		fmt.Fprintf(os.Stderr, "Ratings: %s\n", ratings)
	}
	fmt.Fprintln(os.Stderr)

	added, err := pipeline.IngestCatalog(ctx, c.String("movies"), c.String("ratings"))
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d movies\n", len(added))
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	service, err := db.NewRAGService()
	if err != nil {
		return fmt.Errorf("failed to create RAG service: %w", err)
	}

	result, err := service.ProcessQuery(ctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(result.Response)
	fmt.Fprintf(os.Stderr, "\nMethod: %s, matched %d movies\n", result.Method, result.TotalFound)
	for i, movie := range result.Movies {
		fmt.Fprintf(os.Stderr, "%d. %s", i+1, movie.Title)
		if movie.Year != 0 {
			fmt.Fprintf(os.Stderr, " (%d)", movie.Year)
		}
		fmt.Fprintln(os.Stderr)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := reembed.DefaultConfig()
	if size := c.Int("batch-size"); size > 0 {
		config.BatchSize = size
	}
	config.MissingOnly = c.Bool("missing-only")

	reembedder, err := db.NewReembedder(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func evaluateCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewEvaluationPipeline()
	if err != nil {
		return fmt.Errorf("failed to create evaluation pipeline: %w", err)
	}
	defer pipeline.Release()

	report := pipeline.RunAll(ctx)
	report.PrintSummary(os.Stdout)

	if output := c.String("output"); output != "" {
		if err := report.Save(output); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", output)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
