package ingestion

import "errors"

var (
	// ErrCollectorRequired is returned when a source collector is not provided.
	ErrCollectorRequired = errors.New("source collector required")

	// ErrJobRepositoryRequired is returned when a job repository is not provided.
	ErrJobRepositoryRequired = errors.New("job repository required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")
)
