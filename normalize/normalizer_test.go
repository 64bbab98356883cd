package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/jobvec/core"
)

func TestNormalizeFullPosting(t *testing.T) {
	raw := core.RawPosting{
		Source: "indeed",
		Fields: map[string]string{
			core.FieldID:          "in-42",
			core.FieldTitle:       "Go Engineer",
			core.FieldCompany:     "Acme",
			core.FieldLocation:    "Berlin",
			core.FieldDescription: "Build pipelines.",
			core.FieldURL:         "https://example.com/jobs/42",
		},
	}

	job := Normalize(raw)

	assert.Equal(t, "in-42", job.ID)
	assert.Equal(t, "Go Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Berlin", job.Location)
	assert.Equal(t, "Build pipelines.", job.Description)
	assert.Equal(t, "https://example.com/jobs/42", job.URL)

	require.NoError(t, core.ValidateJob(&job))
}

func TestNormalizeEmptyPosting(t *testing.T) {
	job := Normalize(core.RawPosting{Source: "linkedin"})

	assert.True(t, strings.HasPrefix(job.ID, core.UnknownIDPrefix))
	assert.Equal(t, core.PlaceholderTitle, job.Title)
	assert.Equal(t, core.PlaceholderCompany, job.Company)
	assert.Equal(t, core.PlaceholderLocation, job.Location)
	assert.Equal(t, core.PlaceholderDescription, job.Description)
	assert.Equal(t, core.PlaceholderURL, job.URL)

	// Even a fully empty posting normalizes to a valid job.
	require.NoError(t, core.ValidateJob(&job))
}

func TestNormalizeNaNLikeValues(t *testing.T) {
	for _, v := range []string{"NaN", "nan", "null", "<nil>", "None", ""} {
		t.Run("value_"+v, func(t *testing.T) {
			raw := core.RawPosting{
				Source: "glassdoor",
				Fields: map[string]string{
					core.FieldTitle:   v,
					core.FieldCompany: "Real Co",
				},
			}
			job := Normalize(raw)
			assert.Equal(t, core.PlaceholderTitle, job.Title)
			assert.Equal(t, "Real Co", job.Company)
		})
	}
}

func TestIdentityPrefersSourceID(t *testing.T) {
	raw := core.RawPosting{
		Source: "indeed",
		Fields: map[string]string{core.FieldID: "abc", core.FieldTitle: "T"},
	}
	assert.Equal(t, "abc", Identity(raw))
}

func TestIdentityFallbackIsDeterministic(t *testing.T) {
	a := core.RawPosting{
		Source: "ziprecruiter",
		Fields: map[string]string{
			core.FieldTitle:   "Go Engineer",
			core.FieldCompany: "Acme",
		},
	}
	// Same content, different map construction order.
	b := core.RawPosting{
		Source: "ziprecruiter",
		Fields: map[string]string{
			core.FieldCompany: "Acme",
			core.FieldTitle:   "Go Engineer",
		},
	}

	idA := Identity(a)
	idB := Identity(b)

	require.True(t, strings.HasPrefix(idA, core.UnknownIDPrefix))
	assert.Equal(t, idA, idB)

	c := a
	c.Fields = map[string]string{core.FieldTitle: "Other", core.FieldCompany: "Acme"}
	assert.NotEqual(t, idA, Identity(c))
}

func TestNormalizeIsStable(t *testing.T) {
	raw := core.RawPosting{
		Source: "linkedin",
		Fields: map[string]string{core.FieldTitle: "Data Engineer"},
	}
	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)
}
