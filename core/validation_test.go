package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validJob() *Job {
	return &Job{
		ID:          "123",
		Title:       "Engineer",
		Company:     "Acme",
		Location:    "Bengaluru",
		Description: "Builds things",
		URL:         "https://example.com/123",
	}
}

func TestValidateJob(t *testing.T) {
	t.Run("valid job", func(t *testing.T) {
		assert.NoError(t, ValidateJob(validJob()))
	})

	t.Run("nil job", func(t *testing.T) {
		err := ValidateJob(nil)
		assert.ErrorIs(t, err, ErrInvalidJob)
	})

	t.Run("empty id", func(t *testing.T) {
		job := validJob()
		job.ID = ""
		err := ValidateJob(job)
		assert.ErrorIs(t, err, ErrEmptyID)
	})

	t.Run("empty field", func(t *testing.T) {
		job := validJob()
		job.Description = ""
		err := ValidateJob(job)
		assert.ErrorIs(t, err, ErrEmptyField)
	})

	t.Run("placeholders are valid values", func(t *testing.T) {
		job := validJob()
		job.Title = PlaceholderTitle
		job.Description = FetchFailedSentinel
		assert.NoError(t, ValidateJob(job))
	})
}

func TestIsValidEmbedding(t *testing.T) {
	t.Run("finite vector", func(t *testing.T) {
		assert.True(t, IsValidEmbedding([]float32{0.1, -0.2, 0.3}))
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.False(t, IsValidEmbedding(nil))
		assert.False(t, IsValidEmbedding([]float32{}))
	})

	t.Run("NaN component", func(t *testing.T) {
		assert.False(t, IsValidEmbedding([]float32{0.1, float32(math.NaN()), 0.3}))
	})

	t.Run("infinite component", func(t *testing.T) {
		assert.False(t, IsValidEmbedding([]float32{float32(math.Inf(1)), 0.2}))
		assert.False(t, IsValidEmbedding([]float32{float32(math.Inf(-1)), 0.2}))
	})
}

func TestValidateEmbedding(t *testing.T) {
	assert.NoError(t, ValidateEmbedding([]float32{0.5}))
	assert.ErrorIs(t, ValidateEmbedding(nil), ErrEmptyEmbedding)
	assert.ErrorIs(t, ValidateEmbedding([]float32{float32(math.NaN())}), ErrInvalidEmbedding)
}

func TestNeedsBackfill(t *testing.T) {
	assert.True(t, NeedsBackfill(""))
	assert.True(t, NeedsBackfill(PlaceholderDescription))
	assert.True(t, NeedsBackfill(ExtractFailedSentinel))
	assert.False(t, NeedsBackfill("A real description"))
	// A failed fetch is terminal; it does not trigger another fetch.
	assert.False(t, NeedsBackfill(FetchFailedSentinel))
}
