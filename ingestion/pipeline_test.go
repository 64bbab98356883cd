package ingestion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/jobvec/ai/mock"
	"github.com/poiesic/jobvec/backfill"
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/sources"
	"github.com/poiesic/jobvec/storage"
	"github.com/poiesic/jobvec/storage/badgeridx"
	"github.com/poiesic/jobvec/storage/sqlite"
)

// stubAdapter returns canned postings or a canned error.
type stubAdapter struct {
	name     string
	postings []core.RawPosting
	err      error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Scrape(_ context.Context, _ sources.Query) ([]core.RawPosting, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.postings, nil
}

func posting(source, id, title string) core.RawPosting {
	return core.RawPosting{
		Source: source,
		Fields: map[string]string{
			core.FieldID:          id,
			core.FieldTitle:       title,
			core.FieldCompany:     "Acme",
			core.FieldLocation:    "Berlin",
			core.FieldDescription: "Build " + title + " pipelines.",
			core.FieldURL:         "https://example.com/jobs/" + id,
		},
	}
}

// failingRepo wraps a real repository and fails every upsert.
type failingRepo struct {
	storage.JobRepository
}

func (f *failingRepo) UpsertJobs(_ context.Context, _ []core.Job) error {
	return errors.New("disk full")
}

// failingIndex wraps a real index and fails every upsert.
type failingIndex struct {
	storage.VectorIndex
}

func (f *failingIndex) Upsert(_ context.Context, _ []core.VectorRecord) error {
	return errors.New("index unavailable")
}

type testSinks struct {
	jobs    storage.JobRepository
	vectors storage.VectorIndex
}

func newTestSinks(t *testing.T) testSinks {
	t.Helper()

	jobs, err := sqlite.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { jobs.Close() })

	vectors, err := badgeridx.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { vectors.Close() })
	require.NoError(t, vectors.EnsureIndex(context.Background(), mock.DefaultDimension))

	return testSinks{jobs: jobs, vectors: vectors}
}

func newTestPipeline(t *testing.T, sinks testSinks, adapters []sources.Adapter, opts ...Option) *Pipeline {
	t.Helper()

	registry := sources.NewRegistry()
	for _, a := range adapters {
		registry.Register(a)
	}
	collector, err := sources.NewCollector(registry)
	require.NoError(t, err)
	t.Cleanup(collector.Release)

	opts = append([]Option{WithBackfill(nil)}, opts...)
	p, err := NewPipeline(collector, mock.NewMockProvider(), sinks.jobs, sinks.vectors, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestRun_Success(t *testing.T) {
	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", postings: []core.RawPosting{
			posting("indeed", "in-1", "Go Engineer"),
			posting("indeed", "in-2", "Data Engineer"),
		}},
		&stubAdapter{name: "linkedin", postings: []core.RawPosting{
			posting("linkedin", "li-1", "Platform Engineer"),
		}},
	})

	result := p.Run(context.Background(), Request{SearchTerm: "engineer", Location: "Berlin", ResultsWanted: 10})

	require.NotNil(t, result)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 3, result.JobsScraped)
	assert.Equal(t, 3, result.JobsProcessed)
	assert.Equal(t, 3, result.VectorsUpserted)
	assert.Len(t, result.Jobs, 3)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "Processed 3 out of 3 jobs, upserted 3 vectors", result.Message)

	count, err := sinks.jobs.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	indexed, err := sinks.vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, indexed)

	job, err := sinks.jobs.GetJob(context.Background(), "in-1")
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", job.Title)
}

func TestRun_SourceFailureIsIsolated(t *testing.T) {
	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", postings: []core.RawPosting{posting("indeed", "in-1", "Go Engineer")}},
		&stubAdapter{name: "glassdoor", err: errors.New("rate limited")},
	})

	result := p.Run(context.Background(), Request{SearchTerm: "engineer", ResultsWanted: 5})

	assert.True(t, result.Succeeded())
	assert.Equal(t, 1, result.JobsScraped)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "glassdoor")
	assert.Contains(t, result.Warnings[0], "rate limited")
}

func TestRun_AllSourcesFail(t *testing.T) {
	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", err: errors.New("boom")},
		&stubAdapter{name: "linkedin", err: errors.New("bust")},
	})

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	assert.False(t, result.Succeeded())
	assert.Equal(t, core.StatusError, result.Status)
	assert.Equal(t, "No jobs scraped from any site", result.Message)
	assert.Equal(t, 0, result.JobsScraped)
	assert.Len(t, result.Warnings, 2)

	count, err := sinks.jobs.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRun_IsIdempotent(t *testing.T) {
	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", postings: []core.RawPosting{posting("indeed", "in-1", "Go Engineer")}},
	})

	first := p.Run(context.Background(), Request{SearchTerm: "engineer"})
	second := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	assert.True(t, first.Succeeded())
	assert.True(t, second.Succeeded())

	count, err := sinks.jobs.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	indexed, err := sinks.vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
}

func TestRun_InvalidEmbeddingDropsVectorNotJob(t *testing.T) {
	sinks := newTestSinks(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			v := make([]float32, mock.DefaultDimension)
			if strings.Contains(texts[i], "Cursed") {
				v[0] = float32(math.NaN())
			} else {
				v[0] = 1
			}
			vectors[i] = v
		}
		return vectors, nil
	}

	registry := sources.NewRegistry()
	registry.Register(&stubAdapter{name: "indeed", postings: []core.RawPosting{
		posting("indeed", "in-1", "Go Engineer"),
		posting("indeed", "in-2", "Cursed Job"),
	}})
	collector, err := sources.NewCollector(registry)
	require.NoError(t, err)
	t.Cleanup(collector.Release)

	p, err := NewPipeline(collector, mock.NewMockProviderWithEmbedder(embedder),
		sinks.jobs, sinks.vectors, WithBackfill(nil))
	require.NoError(t, err)
	t.Cleanup(p.Release)

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	assert.True(t, result.Succeeded())
	assert.Equal(t, 2, result.JobsProcessed)
	assert.Equal(t, 1, result.VectorsUpserted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "in-2")

	// The cursed job is still in the relational store.
	job, err := sinks.jobs.GetJob(context.Background(), "in-2")
	require.NoError(t, err)
	assert.Equal(t, "Cursed Job", job.Title)

	indexed, err := sinks.vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, indexed)
}

func TestRun_RelationalFailureAbortsRun(t *testing.T) {
	sinks := newTestSinks(t)
	sinks.jobs = &failingRepo{JobRepository: sinks.jobs}

	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", postings: []core.RawPosting{posting("indeed", "in-1", "Go Engineer")}},
	})

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	assert.False(t, result.Succeeded())
	assert.Contains(t, result.Message, "disk full")
	assert.Equal(t, 1, result.JobsScraped)

	// Nothing reached the vector index either.
	indexed, err := sinks.vectors.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, indexed)
}

func TestRun_IndexFailureIsWarning(t *testing.T) {
	sinks := newTestSinks(t)
	real := sinks.jobs
	sinks.vectors = &failingIndex{VectorIndex: sinks.vectors}

	p := newTestPipeline(t, sinks, []sources.Adapter{
		&stubAdapter{name: "indeed", postings: []core.RawPosting{posting("indeed", "in-1", "Go Engineer")}},
	})

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	assert.True(t, result.Succeeded())
	assert.Equal(t, 0, result.VectorsUpserted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "vector index upsert failed")

	count, err := real.CountJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRun_BackfillFillsMissingDescriptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="posting">Fetched description text.</div></body></html>`)
	}))
	defer srv.Close()

	raw := core.RawPosting{
		Source: "stubsite",
		Fields: map[string]string{
			core.FieldID:    "st-1",
			core.FieldTitle: "Go Engineer",
			core.FieldURL:   srv.URL + "/jobs/1",
		},
	}

	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks,
		[]sources.Adapter{&stubAdapter{name: "stubsite", postings: []core.RawPosting{raw}}},
		WithBackfill(backfill.NewFetcher(backfill.WithRule("stubsite", "div.posting"))),
	)

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	require.True(t, result.Succeeded())
	job, err := sinks.jobs.GetJob(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, "Fetched description text.", job.Description)
}

func TestRun_BackfillFailureStoresSentinel(t *testing.T) {
	raw := core.RawPosting{
		Source: "stubsite",
		Fields: map[string]string{
			core.FieldID:    "st-1",
			core.FieldTitle: "Go Engineer",
			core.FieldURL:   "http://127.0.0.1:1/jobs/1",
		},
	}

	sinks := newTestSinks(t)
	p := newTestPipeline(t, sinks,
		[]sources.Adapter{&stubAdapter{name: "stubsite", postings: []core.RawPosting{raw}}},
		WithBackfill(backfill.NewFetcher(backfill.WithRule("stubsite", "div.posting"))),
	)

	result := p.Run(context.Background(), Request{SearchTerm: "engineer"})

	require.True(t, result.Succeeded())
	job, err := sinks.jobs.GetJob(context.Background(), "st-1")
	require.NoError(t, err)
	assert.Equal(t, core.FetchFailedSentinel, job.Description)
}

func TestNewPipeline_RequiredArguments(t *testing.T) {
	sinks := newTestSinks(t)
	registry := sources.NewRegistry()
	collector, err := sources.NewCollector(registry)
	require.NoError(t, err)
	t.Cleanup(collector.Release)
	provider := mock.NewMockProvider()

	_, err = NewPipeline(nil, provider, sinks.jobs, sinks.vectors)
	assert.ErrorIs(t, err, ErrCollectorRequired)

	_, err = NewPipeline(collector, nil, sinks.jobs, sinks.vectors)
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewPipeline(collector, provider, nil, sinks.vectors)
	assert.ErrorIs(t, err, ErrJobRepositoryRequired)

	_, err = NewPipeline(collector, provider, sinks.jobs, nil)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)
}
