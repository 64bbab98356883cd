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

const linkedinBaseURL = "https://www.linkedin.com/jobs-guest/jobs/api/jobPostings/search"

// linkedinResponse mirrors the guest jobs API response.
type linkedinResponse struct {
	Elements []linkedinPosting `json:"elements"`
}

// linkedinPosting mirrors a single LinkedIn guest posting. The guest API
// never includes a full description; the backfiller fetches it from the
// posting page when needed.
type linkedinPosting struct {
	EntityURN   string `json:"entityUrn"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Location    string `json:"formattedLocation"`
	PostingURL  string `json:"postingUrl"`
}

// LinkedInAdapter fetches job postings from the LinkedIn guest jobs API.
type LinkedInAdapter struct {
	baseURL string
	client  *http.Client
}

// NewLinkedInAdapter creates a new adapter with a shared HTTP client.
func NewLinkedInAdapter(client *http.Client) *LinkedInAdapter {
	return &LinkedInAdapter{
		baseURL: linkedinBaseURL,
		client:  client,
	}
}

// Name returns the source name.
func (a *LinkedInAdapter) Name() string { return SiteLinkedIn }

// Scrape fetches postings matching the query.
func (a *LinkedInAdapter) Scrape(ctx context.Context, q Query) ([]core.RawPosting, error) {
	params := url.Values{}
	params.Set("keywords", q.SearchTerm)
	params.Set("location", q.Location)
	if q.Limit > 0 {
		params.Set("count", strconv.Itoa(q.Limit))
	}

	reqURL := a.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin search: unexpected status %d", resp.StatusCode)
	}

	var payload linkedinResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}

	postings := make([]core.RawPosting, 0, len(payload.Elements))
	for _, p := range payload.Elements {
		fields := map[string]string{
			core.FieldTitle:    p.Title,
			core.FieldCompany:  p.CompanyName,
			core.FieldLocation: p.Location,
			core.FieldURL:      p.PostingURL,
		}
		if p.EntityURN != "" {
			fields[core.FieldID] = p.EntityURN
		}
		postings = append(postings, core.RawPosting{Source: SiteLinkedIn, Fields: fields})
	}

	return postings, nil
}
