// Package mock provides test double implementations of the ai interfaces.
//
// The mocks allow tests and offline runs to proceed without an external
// embedding service and enable controlled, deterministic behavior: the same
// text always produces the same vector.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("service down")
//	}
package mock
