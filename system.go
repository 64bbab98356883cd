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


// Package jobvec assembles the job ingestion and search system: source
// adapters, normalization, description backfill, embedding and dual-sink
// persistence behind one facade.
package jobvec

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/poiesic/jobvec/ai"
	"github.com/poiesic/jobvec/ai/openai"
	"github.com/poiesic/jobvec/backfill"
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/ingestion"
	"github.com/poiesic/jobvec/search"
	"github.com/poiesic/jobvec/sources"
	"github.com/poiesic/jobvec/storage"
	"github.com/poiesic/jobvec/storage/badgeridx"
	"github.com/poiesic/jobvec/storage/sqlite"
)

// System wires the two sinks, the embedding provider and the source
// registry together. It is the entry point for both the CLI and embedders
// of the library.
type System struct {
	jobs      storage.JobRepository
	vectors   storage.VectorIndex
	provider  ai.Provider
	registry  *sources.Registry
	collector *sources.Collector
	fetcher   *backfill.Fetcher
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	adapters []sources.Adapter
	fetcher  *backfill.Fetcher
}

// WithAIConfig sets the embedding service configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider sets a pre-built AI provider, bypassing the default
// OpenAI-compatible one. The system takes ownership and closes it.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithAdapters replaces the default source adapters.
func WithAdapters(adapters ...sources.Adapter) SystemOption {
	return func(o *systemOptions) {
		o.adapters = adapters
	}
}

// WithBackfillFetcher replaces the default description fetcher.
// Passing nil disables backfill.
func WithBackfillFetcher(fetcher *backfill.Fetcher) SystemOption {
	return func(o *systemOptions) {
		o.fetcher = fetcher
	}
}

// NewSystem opens the job store at dbPath and the vector index at indexPath
// and prepares the index for the configured embedding dimension. The default
// source registry holds the four built-in site adapters, with ZipRecruiter
// capped at its recommended per-source limit.
func NewSystem(dbPath, indexPath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
		fetcher:  backfill.NewFetcher(),
	}
	for _, opt := range opts {
		opt(options)
	}

	jobs, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	vectors, err := badgeridx.Open(indexPath, indexPath == "")
	if err != nil {
		jobs.Close()
		return nil, err
	}

	if err := vectors.EnsureIndex(context.Background(), options.aiConfig.Dimension); err != nil {
		vectors.Close()
		jobs.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectors.Close()
			jobs.Close()
			return nil, err
		}
	}

	registry := sources.NewRegistry()
	if len(options.adapters) > 0 {
		for _, adapter := range options.adapters {
			registry.Register(adapter)
		}
	} else {
		client := http.DefaultClient
		registry.Register(sources.NewIndeedAdapter(client))
		registry.Register(sources.NewLinkedInAdapter(client))
		registry.Register(sources.NewGlassdoorAdapter(client))
		registry.Register(sources.NewZipRecruiterAdapter(client),
			sources.WithMaxResults(sources.DefaultZipRecruiterCap))
	}

	collector, err := sources.NewCollector(registry)
	if err != nil {
		provider.Close()
		vectors.Close()
		jobs.Close()
		return nil, err
	}

	return &System{
		jobs:      jobs,
		vectors:   vectors,
		provider:  provider,
		registry:  registry,
		collector: collector,
		fetcher:   options.fetcher,
		logger:    slog.Default(),
	}, nil
}

// Close releases every component. Safe to call once.
func (s *System) Close() error {
	s.collector.Release()
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.vectors.Close(); err != nil {
		s.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := s.jobs.Close(); err != nil {
		s.logger.Error("error closing job store", "err", err)
		return err
	}
	return nil
}

// JobRepository exposes the relational store.
func (s *System) JobRepository() storage.JobRepository {
	return s.jobs
}

// VectorIndex exposes the similarity index.
func (s *System) VectorIndex() storage.VectorIndex {
	return s.vectors
}

// NewPipeline creates an ingestion pipeline over the system's components.
func (s *System) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithBackfill(s.fetcher)}, opts...)
	return ingestion.NewPipeline(s.collector, s.provider, s.jobs, s.vectors, opts...)
}

// Ingest runs one scrape-to-store pass and returns its result.
func (s *System) Ingest(ctx context.Context, req ingestion.Request) (*core.IngestionResult, error) {
	pipeline, err := s.NewPipeline()
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()
	return pipeline.Run(ctx, req), nil
}

// NewSearcher creates a searcher over the system's components.
func (s *System) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.jobs, s.vectors, s.provider, opts...)
}

// Embed exposes the embedding model directly, for callers that want raw
// vectors for their own text.
func (s *System) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.provider.Embedder().EmbedText(ctx, text)
}
