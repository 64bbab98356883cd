package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/jobvec/core"
)

const glassdoorBaseURL = "https://www.glassdoor.com/api/v1/jobs/search"

// glassdoorResponse mirrors the top-level Glassdoor search response.
type glassdoorResponse struct {
	JobListings []glassdoorListing `json:"jobListings"`
}

// glassdoorListing mirrors a single Glassdoor job listing.
type glassdoorListing struct {
	JobID        int64  `json:"jobId"`
	JobTitle     string `json:"jobTitle"`
	EmployerName string `json:"employerName"`
	Location     string `json:"location"`
	Snippet      string `json:"descriptionSnippet"`
	JobLink      string `json:"jobLink"`
}

// GlassdoorAdapter fetches job postings from the Glassdoor search API.
type GlassdoorAdapter struct {
	baseURL string
	client  *http.Client
}

// NewGlassdoorAdapter creates a new adapter with a shared HTTP client.
func NewGlassdoorAdapter(client *http.Client) *GlassdoorAdapter {
	return &GlassdoorAdapter{
		baseURL: glassdoorBaseURL,
		client:  client,
	}
}

// Name returns the source name.
func (a *GlassdoorAdapter) Name() string { return SiteGlassdoor }

// Scrape fetches postings matching the query.
func (a *GlassdoorAdapter) Scrape(ctx context.Context, q Query) ([]core.RawPosting, error) {
	params := url.Values{}
	params.Set("keyword", q.SearchTerm)
	params.Set("locationName", q.Location)
	if q.Limit > 0 {
		params.Set("pageSize", strconv.Itoa(q.Limit))
	}

	reqURL := a.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("glassdoor search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("glassdoor search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("glassdoor search: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("glassdoor search: status %d: %s", resp.StatusCode, string(body))
	}

	var payload glassdoorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("glassdoor search: %w", err)
	}

	postings := make([]core.RawPosting, 0, len(payload.JobListings))
	for _, l := range payload.JobListings {
		fields := map[string]string{
			core.FieldTitle:    l.JobTitle,
			core.FieldCompany:  l.EmployerName,
			core.FieldLocation: l.Location,
			core.FieldURL:      l.JobLink,
		}
		if l.JobID != 0 {
			fields[core.FieldID] = strconv.FormatInt(l.JobID, 10)
		}
		if l.Snippet != "" {
			fields[core.FieldDescription] = l.Snippet
		}
		postings = append(postings, core.RawPosting{Source: SiteGlassdoor, Fields: fields})
	}

	return postings, nil
}
