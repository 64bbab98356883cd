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

const indeedBaseURL = "https://apis.indeed.com/v2/jobsearch"

// indeedResponse mirrors the top-level Indeed search response.
type indeedResponse struct {
	Results []indeedResult `json:"results"`
}

// indeedResult mirrors a single Indeed job listing.
type indeedResult struct {
	JobKey            string `json:"jobkey"`
	Title             string `json:"title"`
	Company           string `json:"company"`
	FormattedLocation string `json:"formattedLocation"`
	Snippet           string `json:"snippet"`
	URL               string `json:"url"`
}

// IndeedAdapter fetches job postings from the Indeed search API.
type IndeedAdapter struct {
	baseURL string
	client  *http.Client
}

// NewIndeedAdapter creates a new adapter with a shared HTTP client.
func NewIndeedAdapter(client *http.Client) *IndeedAdapter {
	return &IndeedAdapter{
		baseURL: indeedBaseURL,
		client:  client,
	}
}

// Name returns the source name.
func (a *IndeedAdapter) Name() string { return SiteIndeed }

// Scrape fetches postings matching the query. Indeed requires a country
// scope, so the query's CountryHint is forwarded when present.
func (a *IndeedAdapter) Scrape(ctx context.Context, q Query) ([]core.RawPosting, error) {
	params := url.Values{}
	params.Set("q", q.SearchTerm)
	params.Set("l", q.Location)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CountryHint != "" {
		params.Set("co", q.CountryHint)
	}

	reqURL := a.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indeed search: unexpected status %d", resp.StatusCode)
	}

	var payload indeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("indeed search: %w", err)
	}

	postings := make([]core.RawPosting, 0, len(payload.Results))
	for _, r := range payload.Results {
		fields := map[string]string{
			core.FieldTitle:    r.Title,
			core.FieldCompany:  r.Company,
			core.FieldLocation: r.FormattedLocation,
			core.FieldURL:      r.URL,
		}
		if r.JobKey != "" {
			fields[core.FieldID] = r.JobKey
		}
		if r.Snippet != "" {
			fields[core.FieldDescription] = r.Snippet
		}
		postings = append(postings, core.RawPosting{Source: SiteIndeed, Fields: fields})
	}

	return postings, nil
}
