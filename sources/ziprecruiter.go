package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/jobvec/core"
)

const ziprecruiterBaseURL = "https://api.ziprecruiter.com/jobs/v1"

// DefaultZipRecruiterCap is the recommended per-source cap for ZipRecruiter.
// The source is US-focused, so large limits for other regions only return
// irrelevant listings.
const DefaultZipRecruiterCap = 10

// ziprecruiterResponse mirrors the top-level ZipRecruiter API response.
type ziprecruiterResponse struct {
	Jobs []ziprecruiterJob `json:"jobs"`
}

// ziprecruiterJob mirrors a single ZipRecruiter job listing.
type ziprecruiterJob struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	HiringCompany ziprecruiterCompany  `json:"hiring_company"`
	Location      string               `json:"location"`
	Snippet       string               `json:"snippet"`
	URL           string               `json:"url"`
}

type ziprecruiterCompany struct {
	Name string `json:"name"`
}

// ZipRecruiterAdapter fetches job postings from the ZipRecruiter API.
type ZipRecruiterAdapter struct {
	baseURL string
	client  *http.Client
}

// NewZipRecruiterAdapter creates a new adapter with a shared HTTP client.
func NewZipRecruiterAdapter(client *http.Client) *ZipRecruiterAdapter {
	return &ZipRecruiterAdapter{
		baseURL: ziprecruiterBaseURL,
		client:  client,
	}
}

// Name returns the source name.
func (a *ZipRecruiterAdapter) Name() string { return SiteZipRecruiter }

// Scrape fetches postings matching the query.
func (a *ZipRecruiterAdapter) Scrape(ctx context.Context, q Query) ([]core.RawPosting, error) {
	params := url.Values{}
	params.Set("search", q.SearchTerm)
	params.Set("location", q.Location)
	if q.Limit > 0 {
		params.Set("jobs_per_page", strconv.Itoa(q.Limit))
	}

	reqURL := a.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ziprecruiter search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ziprecruiter search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ziprecruiter search: unexpected status %d", resp.StatusCode)
	}

	var payload ziprecruiterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ziprecruiter search: %w", err)
	}

	postings := make([]core.RawPosting, 0, len(payload.Jobs))
	for _, j := range payload.Jobs {
		fields := map[string]string{
			core.FieldTitle:    j.Name,
			core.FieldCompany:  j.HiringCompany.Name,
			core.FieldLocation: j.Location,
			core.FieldURL:      j.URL,
		}
		if j.ID != "" {
			fields[core.FieldID] = j.ID
		}
		if j.Snippet != "" {
			fields[core.FieldDescription] = j.Snippet
		}
		postings = append(postings, core.RawPosting{Source: SiteZipRecruiter, Fields: fields})
	}

	return postings, nil
}
