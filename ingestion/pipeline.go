package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/jobvec/ai"
	"github.com/poiesic/jobvec/backfill"
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/normalize"
	"github.com/poiesic/jobvec/sources"
	"github.com/poiesic/jobvec/storage"
)

// Request describes one ingestion run.
type Request struct {
	SearchTerm    string
	Location      string
	ResultsWanted int
	// CountryHint is forwarded to source adapters that scope results by
	// country. Empty means no country scoping.
	CountryHint string
}

// Pipeline orchestrates one ingestion run: collect raw postings, normalize
// them into jobs, backfill missing descriptions, embed, and persist to both
// sinks. A run never returns a Go error; every failure below the batch level
// is absorbed into the result's status, counts and warnings.
type Pipeline struct {
	collector *sources.Collector
	fetcher   *backfill.Fetcher
	embedder  ai.Embedder
	writer    *sinkWriter
	pool      *ants.Pool
	monitor   Monitor
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent backfill fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBackfill sets the description fetcher. Passing nil disables backfill;
// jobs keep whatever description their source reported.
func WithBackfill(fetcher *backfill.Fetcher) Option {
	return func(p *Pipeline) error {
		p.fetcher = fetcher
		return nil
	}
}

// WithMonitor sets a monitor observing the run's phases.
// Default is a no-op monitor.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	collector *sources.Collector,
	provider ai.Provider,
	jobs storage.JobRepository,
	vectors storage.VectorIndex,
	opts ...Option,
) (*Pipeline, error) {
	if collector == nil {
		return nil, ErrCollectorRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "ingestion")
	p := &Pipeline{
		collector: collector,
		fetcher:   backfill.NewFetcher(),
		embedder:  provider.Embedder(),
		pool:      pool,
		monitor:   &noopMonitor{},
		logger:    logger,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.writer = &sinkWriter{jobs: jobs, vectors: vectors, logger: p.logger}
	return p, nil
}

// Run executes one ingestion. The returned result is never nil; total
// collection failure or a failed relational commit yield an error-status
// result, everything smaller becomes a warning.
func (p *Pipeline) Run(ctx context.Context, req Request) *core.IngestionResult {
	p.monitor.Start(req)

	result := p.run(ctx, req)
	p.monitor.Finish(result)
	return result
}

func (p *Pipeline) run(ctx context.Context, req Request) *core.IngestionResult {
	// Collect.
	postings, failures := p.collector.Collect(ctx, sources.Query{
		SearchTerm:  req.SearchTerm,
		Location:    req.Location,
		Limit:       req.ResultsWanted,
		CountryHint: req.CountryHint,
	})
	p.monitor.AfterCollect(postings, failures)

	var warnings []string
	for _, f := range failures {
		warnings = append(warnings, fmt.Sprintf("failed to scrape %s: %v", f.Source, f.Err))
	}

	if len(postings) == 0 {
		return &core.IngestionResult{
			Status:   core.StatusError,
			Message:  "No jobs scraped from any site",
			Warnings: warnings,
		}
	}

	// Normalize.
	jobs := make([]core.Job, len(postings))
	for i, raw := range postings {
		jobs[i] = normalize.Normalize(raw)
	}
	p.monitor.AfterNormalize(jobs)

	// Backfill missing descriptions concurrently, one task per job.
	filled := p.backfill(ctx, jobs, postings)
	p.monitor.AfterBackfill(filled)

	// Embed the whole batch; invalid vectors drop the vector, not the job.
	records, embedWarnings := p.embed(ctx, jobs)
	warnings = append(warnings, embedWarnings...)
	p.monitor.AfterEmbed(records)

	// Persist: relational store first, index best-effort after.
	upserted, writeWarnings, err := p.writer.write(ctx, jobs, records)
	warnings = append(warnings, writeWarnings...)
	if err != nil {
		p.logger.Error("ingestion aborted", "err", err)
		return &core.IngestionResult{
			Status:      core.StatusError,
			Message:     err.Error(),
			JobsScraped: len(postings),
			Warnings:    warnings,
		}
	}
	p.monitor.AfterPersist(len(jobs), upserted)

	return &core.IngestionResult{
		Status: core.StatusSuccess,
		Message: fmt.Sprintf("Processed %d out of %d jobs, upserted %d vectors",
			len(jobs), len(postings), upserted),
		JobsScraped:     len(postings),
		JobsProcessed:   len(jobs),
		VectorsUpserted: upserted,
		Jobs:            jobs,
		Warnings:        warnings,
	}
}

// backfill fetches descriptions for jobs that need one. Returns how many
// were actually replaced with fetched text. Fetch failures surface as the
// fetch-failed sentinel inside the job, never as an error.
func (p *Pipeline) backfill(ctx context.Context, jobs []core.Job, postings []core.RawPosting) int {
	if p.fetcher == nil {
		return 0
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		filled int
	)
	for i := range jobs {
		if !core.NeedsBackfill(jobs[i].Description) {
			continue
		}
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			desc := p.fetcher.Fetch(ctx, jobs[i].URL, postings[i].Source)
			mu.Lock()
			defer mu.Unlock()
			jobs[i].Description = desc
			if desc != core.FetchFailedSentinel && desc != core.ExtractFailedSentinel {
				filled++
			}
		}
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
	return filled
}

// embed computes one vector per job and returns the records that passed the
// validity gate. A failed batch call falls back to per-job embedding so one
// bad input cannot sink the whole run.
func (p *Pipeline) embed(ctx context.Context, jobs []core.Job) ([]core.VectorRecord, []string) {
	texts := make([]string, len(jobs))
	for i := range jobs {
		texts[i] = jobs[i].EmbeddingText()
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(jobs) {
		if err != nil {
			p.logger.Warn("batch embedding failed, falling back to per-job calls", "err", err)
		}
		vectors = make([][]float32, len(jobs))
		for i := range jobs {
			v, embedErr := p.embedder.EmbedText(ctx, texts[i])
			if embedErr != nil {
				p.logger.Warn("embedding failed", "job", jobs[i].ID, "err", embedErr)
				continue
			}
			vectors[i] = v
		}
	}

	var (
		records  []core.VectorRecord
		warnings []string
	)
	for i := range jobs {
		if !core.IsValidEmbedding(vectors[i]) {
			warnings = append(warnings,
				fmt.Sprintf("skipping vector for job %s: invalid embedding", jobs[i].ID))
			continue
		}
		records = append(records, core.VectorRecord{
			ID:       jobs[i].ID,
			Values:   vectors[i],
			Metadata: core.MetadataForJob(jobs[i]),
		})
	}
	return records, warnings
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
