package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/jobvec/ai"
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/storage"
)

// Searcher provides semantic search over ingested jobs.
type Searcher struct {
	jobs     storage.JobRepository
	vectors  storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	jobs storage.JobRepository,
	vectors storage.VectorIndex,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		jobs:     jobs,
		vectors:  vectors,
		embedder: provider.Embedder(),
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for jobs semantically similar to the query.
// Returns up to maxHits results ranked by similarity score, each hydrated
// from the relational store. Index hits without a job row are skipped.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits <= 0 {
		return nil, nil
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	if err := core.ValidateEmbedding(embedding); err != nil {
		return nil, err
	}

	matches, err := s.vectors.Query(ctx, embedding, maxHits)
	if err != nil {
		s.logger.Error("error querying vector index", "err", err)
		return nil, err
	}

	// Hydrate from the relational store, preserving index order.
	results := make([]core.SearchResult, 0, len(matches))
	for _, match := range matches {
		job, err := s.jobs.GetJob(ctx, match.ID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("indexed job missing from store, skipping", "id", match.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, core.SearchResult{Job: job, Score: match.Score})
	}

	return results, nil
}
