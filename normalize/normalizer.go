// Package normalize converts raw source postings into canonical jobs.
//
// Normalization is total: any raw posting, however sparse or malformed,
// produces a Job with every field populated. Missing or NaN-like values are
// replaced with field-specific placeholders at construction. The transform
// is a pure function of its input, so identical postings always normalize
// to the same Job, id included.
package normalize

import (
	"github.com/poiesic/jobvec/core"
)

// nanLike values are treated as absent. Sources that serialize numeric
// columns through string conversion leak these for missing cells.
var nanLike = map[string]struct{}{
	"NaN":   {},
	"nan":   {},
	"null":  {},
	"<nil>": {},
	"None":  {},
}

// cleanField returns the posting's value for key, or ok=false when the field
// is absent, empty, or a NaN-like marker.
func cleanField(raw core.RawPosting, key string) (string, bool) {
	v, ok := raw.Field(key)
	if !ok || v == "" {
		return "", false
	}
	if _, isNaN := nanLike[v]; isNaN {
		return "", false
	}
	return v, true
}

// orPlaceholder returns the cleaned field value or the placeholder.
func orPlaceholder(raw core.RawPosting, key, placeholder string) string {
	if v, ok := cleanField(raw, key); ok {
		return v
	}
	return placeholder
}

// Identity returns the stable id for a raw posting: the source's external id
// when reported, otherwise a deterministic content hash with the unknown
// prefix. The fallback is stable within a run but not guaranteed
// collision-free across sources that report no ids.
func Identity(raw core.RawPosting) string {
	if id, ok := cleanField(raw, core.FieldID); ok {
		return id
	}
	return core.UnknownIDPrefix + core.IDFromContent(raw.ContentKey())
}

// Normalize converts one raw posting into a canonical job. Every field of
// the result is populated; no validation or truncation is applied beyond
// placeholder substitution.
func Normalize(raw core.RawPosting) core.Job {
	return core.Job{
		ID:          Identity(raw),
		Title:       orPlaceholder(raw, core.FieldTitle, core.PlaceholderTitle),
		Company:     orPlaceholder(raw, core.FieldCompany, core.PlaceholderCompany),
		Location:    orPlaceholder(raw, core.FieldLocation, core.PlaceholderLocation),
		Description: orPlaceholder(raw, core.FieldDescription, core.PlaceholderDescription),
		URL:         orPlaceholder(raw, core.FieldURL, core.PlaceholderURL),
	}
}
