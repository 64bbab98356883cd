package sources

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/jobvec/core"
)

// Collector fans one query out over every registered adapter and joins the
// results. Each adapter runs in isolation: a failing source is logged,
// recorded as a Failure, and excluded from the aggregate — it never aborts
// the run. The aggregate preserves registration order, not completion order.
type Collector struct {
	registry *Registry
	pool     *ants.Pool
	logger   *slog.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector) error

// WithPoolSize sets the worker pool size for concurrent scraping.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) CollectorOption {
	return func(c *Collector) error {
		if size < 1 {
			size = 1
		}
		if c.pool != nil {
			c.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCollector creates a collector over the given registry.
func NewCollector(registry *Registry, opts ...CollectorOption) (*Collector, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Collector{
		registry: registry,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(c); optErr != nil {
			c.Release()
			return nil, optErr
		}
	}

	return c, nil
}

// Collect runs the query against every registered adapter concurrently and
// returns the concatenation of all successful sources' postings in
// registration order, plus one Failure per source that produced an error.
func (c *Collector) Collect(ctx context.Context, q Query) ([]core.RawPosting, []Failure) {
	n := c.registry.Len()
	slots := make([][]core.RawPosting, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i, e := range c.registry.entries {
		wg.Add(1)

		sourceQuery := q
		sourceQuery.Limit = e.limitFor(q.Limit)
		adapter := e.adapter
		slot := i

		task := func() {
			defer wg.Done()
			c.logger.Info("scraping source", "source", adapter.Name())
			postings, err := adapter.Scrape(ctx, sourceQuery)
			if err != nil {
				c.logger.Warn("source failed", "source", adapter.Name(), "err", err)
				errs[slot] = err
				return
			}
			c.logger.Info("scraped source", "source", adapter.Name(), "postings", len(postings))
			slots[slot] = postings
		}

		// Run inline if the pool can't take the task (released pool).
		if err := c.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	var all []core.RawPosting
	var failures []Failure
	for i, e := range c.registry.entries {
		if errs[i] != nil {
			failures = append(failures, Failure{Source: e.adapter.Name(), Err: errs[i]})
			continue
		}
		all = append(all, slots[i]...)
	}

	return all, failures
}

// Release releases the worker pool.
// The collector should not be used after calling Release.
func (c *Collector) Release() {
	if c.pool != nil {
		c.pool.Release()
	}
}
