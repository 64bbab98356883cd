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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/jobvec"
	"github.com/poiesic/jobvec/ai"
	"github.com/poiesic/jobvec/ai/mock"
	"github.com/poiesic/jobvec/ingestion"
)

func main() {
	app := &cli.App{
		Name:  "jobvec",
		Usage: "Job posting ingestion and semantic search",
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
				Name:   "ingest",
				Usage:  "Scrape job postings, embed them and persist to both stores",
				Action: ingestCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "search-term",
						Aliases:  []string{"s"},
						Usage:    "Search term passed to every job site",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Location filter passed to every job site",
					},
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"n"},
						Usage:   "Number of postings wanted per site",
						Value:   20,
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Country hint for sites that scope results by country",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Semantic search over previously ingested jobs",
				Action: searchCommand,
				Flags: append(systemFlags(),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Free-text search query",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// systemFlags are shared by every command that opens the system.
func systemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the SQLite job database file",
			Value:   "jobvec.db",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "Path to the vector index directory",
			Value: "jobvec-index",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector dimension",
			Value: 384,
		},
		&cli.BoolFlag{
			Name:  "mock-embedder",
			Usage: "Use a deterministic in-process embedder (no embedding service needed)",
		},
	}
}

func openSystem(c *cli.Context) (*jobvec.System, error) {
	opts := []jobvec.SystemOption{
		jobvec.WithAIConfig(ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithDimension(c.Int("dimension")),
		)),
	}
	if c.Bool("mock-embedder") {
		embedder := mock.NewMockEmbedder()
		embedder.Dimension = c.Int("dimension")
		opts = append(opts, jobvec.WithProvider(mock.NewMockProviderWithEmbedder(embedder)))
	}
	return jobvec.NewSystem(c.String("db"), c.String("index"), opts...)
}

func ingestCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	result, err := sys.Ingest(context.Background(), ingestion.Request{
		SearchTerm:    c.String("search-term"),
		Location:      c.String("location"),
		ResultsWanted: c.Int("results"),
		CountryHint:   c.String("country"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if !result.Succeeded() {
		return fmt.Errorf("ingestion failed: %s", result.Message)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	sys, err := openSystem(c)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer sys.Close()

	searcher, err := sys.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilar(context.Background(), c.String("query"), c.Int("limit"))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
