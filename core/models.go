package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"sort"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// UnknownIDPrefix marks job identities that were derived from content
// hashing because the source did not report an external id.
const UnknownIDPrefix = "unknown_"

// Field placeholders applied during normalization. A Job never carries an
// empty field after normalization; each missing value is replaced with the
// placeholder for that field.
const (
	PlaceholderTitle       = "Unknown Title"
	PlaceholderCompany     = "Unknown Company"
	PlaceholderLocation    = "Unknown Location"
	PlaceholderDescription = "No description available"
	PlaceholderURL         = "No URL available"
)

// Backfill sentinels. FetchFailedSentinel is stored when description
// backfill fails; ExtractFailedSentinel is recognized as a "no description"
// marker that triggers backfill in the first place.
const (
	FetchFailedSentinel   = "Failed to fetch description"
	ExtractFailedSentinel = "Failed to extract description"
)

// IDFromContent derives a deterministic identifier from text using BLAKE2b
// hashing. Identical content always produces the same identifier.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return strconv.FormatUint(binary.LittleEndian.Uint64(sum), 10)
}

// Raw posting field keys. Sources differ in which fields they populate;
// these are the keys the normalizer understands.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldURL         = "job_url"
)

// RawPosting is the loosely-typed record a source adapter reports. It exists
// only for the duration of one ingestion run. Fields holds whatever subset
// of the known field keys the source produced; absent fields are simply
// missing from the map.
type RawPosting struct {
	Source string
	Fields map[string]string
}

// Field returns the named field and whether the source reported it.
func (r RawPosting) Field(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// ContentKey returns a deterministic string form of the posting used for
// fallback identity hashing. Keys are emitted in sorted order so the result
// does not depend on map iteration order.
func (r RawPosting) ContentKey() string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.Source)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.Fields[k])
	}
	return b.String()
}

// Job is the normalized, persisted representation of one posting.
// All fields are populated after normalization (placeholder or real value).
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// EmbeddingText returns the canonical text a job is embedded from. The
// space-joined field order is a compatibility contract with existing vector
// index entries; changing it changes every vector.
func (j Job) EmbeddingText() string {
	return j.Title + " " + j.Company + " " + j.Location + " " + j.Description
}

// VectorMetadata is the per-record metadata stored alongside a vector.
type VectorMetadata struct {
	Title    string
	Company  string
	Location string
	URL      string
}

// VectorRecord is one entry in the vector index, keyed by the same identity
// as the relational Job row. Upserting an existing id overwrites it.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata VectorMetadata
}

// MetadataForJob builds vector metadata from a normalized job.
func MetadataForJob(job Job) VectorMetadata {
	return VectorMetadata{
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		URL:      job.URL,
	}
}

// VectorMatch is a single hit from a vector index query.
type VectorMatch struct {
	ID       string
	Score    float32
	Metadata VectorMetadata
}

// SearchResult pairs a job with its similarity score.
type SearchResult struct {
	Job   *Job    `json:"job"`
	Score float32 `json:"score"`
}

// Ingestion result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// IngestionResult aggregates the outcome of one ingestion run. The caller
// always receives one of these, never a bare error: failures below the batch
// level are absorbed into counts and warnings.
type IngestionResult struct {
	Status          string   `json:"status"`
	Message         string   `json:"message"`
	JobsScraped     int      `json:"jobs_scraped"`
	JobsProcessed   int      `json:"jobs_processed"`
	VectorsUpserted int      `json:"vectors_upserted"`
	Jobs            []Job    `json:"jobs"`
	Warnings        []string `json:"warnings,omitempty"`
}

// Succeeded reports whether the run completed with success status.
func (r *IngestionResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
