// Package ingestion provides pipeline orchestration for one scrape-to-store run.
//
// The Pipeline type manages the ingestion workflow for job postings, including:
//   - Collecting raw postings from every registered source
//   - Normalizing them into canonical jobs
//   - Backfilling missing descriptions concurrently
//   - Embedding and dual-sink persistence
//
// Backfill fetches are performed concurrently using a worker pool. Failures
// below the batch level are absorbed into the result's warnings; only total
// collection failure or a failed relational commit produce an error status.
package ingestion
