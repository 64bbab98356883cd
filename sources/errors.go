package sources

import "errors"

var (
	// ErrRegistryRequired is returned when a registry is not provided.
	ErrRegistryRequired = errors.New("adapter registry required")
)
