// Package backfill fetches missing job descriptions from posting detail
// pages.
//
// Sources often omit the full description from their listing responses. The
// Fetcher retrieves the detail page over HTTP with a bounded timeout and
// applies a source-specific CSS selector to extract the description text.
// Extraction failure is an expected outcome, not an error: the caller always
// receives a string, with the sentinel standing in when the fetch fails.
package backfill
