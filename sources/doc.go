// Package sources wraps the external job-listing providers jobvec ingests
// from.
//
// Each provider is represented by an Adapter producing raw postings for one
// search query. Adapters are registered in a Registry, which fixes both the
// aggregate ordering of a run and any per-source result caps. A Collector
// fans a query out over all registered adapters concurrently and joins the
// results; a failing adapter is isolated to a Failure entry and never aborts
// the run.
package sources
