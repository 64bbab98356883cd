package sources

import (
	"context"

	"github.com/poiesic/jobvec/core"
)

// Site names of the built-in adapters.
const (
	SiteIndeed       = "indeed"
	SiteLinkedIn     = "linkedin"
	SiteGlassdoor    = "glassdoor"
	SiteZipRecruiter = "ziprecruiter"
)

// Query describes one search request passed to every adapter.
type Query struct {
	SearchTerm string
	Location   string
	// Limit caps the number of postings an adapter should return. The
	// registry may lower it further per source.
	Limit int
	// CountryHint narrows geographic scope for sources that require it.
	// Adapters that don't need a country ignore it.
	CountryHint string
}

// Adapter wraps one external job-listing source. Implementations perform
// whatever network calls and parsing the source requires and report either a
// list of raw postings or an error; they never partially succeed.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Name returns the source name recorded on every posting.
	Name() string

	// Scrape fetches postings matching the query. All returned postings
	// carry the adapter's source name.
	Scrape(ctx context.Context, q Query) ([]core.RawPosting, error)
}

// Failure records one source that could not produce records during a run.
// Failures are aggregated, never propagated past the collector.
type Failure struct {
	Source string
	Err    error
}
