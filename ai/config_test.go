package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "all-minilm", cfg.EmbeddingModel)
	assert.Equal(t, 384, cfg.Dimension)
}

func TestNewConfig(t *testing.T) {
	t.Run("no options uses defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("options override defaults", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed.internal:9100/v1"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithDimension(1536),
		)
		assert.Equal(t, "http://embed.internal:9100/v1", cfg.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, 1536, cfg.Dimension)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("strips trailing slash before adding suffix", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("idempotent", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:11434/v1"))
		cfg.Normalize()
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, NewConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid dimension", func(t *testing.T) {
		cfg := NewConfig(WithDimension(0))
		assert.Error(t, cfg.Validate())
	})
}
