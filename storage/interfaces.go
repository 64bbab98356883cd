package storage

import (
	"context"

	"github.com/poiesic/jobvec/core"
)

// JobRepository provides operations for the relational job store.
// Implementations must be thread-safe and support concurrent access.
type JobRepository interface {
	// UpsertJobs writes a batch of jobs in a single transaction. Existing
	// ids are overwritten. Either every job in the batch is persisted or
	// none is; a returned error means the transaction was rolled back.
	UpsertJobs(ctx context.Context, jobs []core.Job) error

	// GetJob retrieves a single job by id.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id string) (*core.Job, error)

	// CountJobs returns the number of persisted jobs.
	CountJobs(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// VectorIndex provides operations for the similarity index. The index is a
// secondary sink: callers commit the relational store first and treat index
// failures as warnings, so implementations must tolerate ids that never
// arrive and ids upserted more than once.
type VectorIndex interface {
	// EnsureIndex prepares the index for vectors of the given dimension.
	// Idempotent for a matching dimension; returns ErrDimensionMismatch
	// when the index already holds vectors of a different dimension.
	EnsureIndex(ctx context.Context, dimension int) error

	// Upsert writes vector records, overwriting existing ids.
	Upsert(ctx context.Context, records []core.VectorRecord) error

	// Query returns up to limit records most similar to the vector,
	// ordered by similarity score (highest first).
	Query(ctx context.Context, vector []float32, limit int) ([]core.VectorMatch, error)

	// Count returns the number of indexed vectors.
	Count(ctx context.Context) (int, error)

	// Close closes the index and releases resources.
	Close() error
}
