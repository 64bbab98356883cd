package backfill

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/sources"
)

// DefaultTimeout bounds one description fetch so a single slow detail page
// cannot stall the batch.
const DefaultTimeout = 10 * time.Second

// userAgent is sent on detail-page fetches; several sources reject requests
// without a browser user agent.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// defaultRules maps a source name to the CSS selector holding the job
// description on that source's detail pages. Sources not listed here always
// yield the failure sentinel.
var defaultRules = map[string]string{
	sources.SiteLinkedIn:     "div.description__text",
	sources.SiteGlassdoor:    "div.desc",
	sources.SiteZipRecruiter: "div.job_description",
	sources.SiteIndeed:       "div#jobDescriptionText",
}

// Fetcher retrieves missing job descriptions from posting detail pages.
//
// Fetch never returns an error: every failure mode (bad URL, network error,
// timeout, unknown source, missing element) collapses to the sentinel
// string, so the pipeline always proceeds. Each posting gets exactly one
// attempt; there are no retries.
type Fetcher struct {
	client *http.Client
	rules  map[string]string
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithRule adds or replaces the selector for a source.
func WithRule(source, selector string) Option {
	return func(f *Fetcher) {
		f.rules[source] = selector
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
	}
}

// NewFetcher creates a fetcher with the built-in source rules.
func NewFetcher(opts ...Option) *Fetcher {
	rules := make(map[string]string, len(defaultRules))
	for k, v := range defaultRules {
		rules[k] = v
	}

	f := &Fetcher{
		client: &http.Client{Timeout: DefaultTimeout},
		rules:  rules,
		logger: slog.Default().With("component", "backfill"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the description for a posting from its detail page,
// applying the source's extraction rule. Returns the extracted text, or the
// fetch-failed sentinel on any failure.
func (f *Fetcher) Fetch(ctx context.Context, url, source string) string {
	selector, ok := f.rules[source]
	if !ok {
		f.logger.Debug("no extraction rule for source", "source", source)
		return core.FetchFailedSentinel
	}
	if url == "" || url == core.PlaceholderURL {
		return core.FetchFailedSentinel
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn("building description request failed", "url", url, "err", err)
		return core.FetchFailedSentinel
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("description fetch failed", "source", source, "url", url, "err", err)
		return core.FetchFailedSentinel
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("description fetch failed", "source", source, "url", url, "status", resp.StatusCode)
		return core.FetchFailedSentinel
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.logger.Warn("parsing detail page failed", "source", source, "url", url, "err", err)
		return core.FetchFailedSentinel
	}

	text := strings.TrimSpace(doc.Find(selector).First().Text())
	if text == "" {
		f.logger.Warn("description element missing", "source", source, "url", url, "selector", selector)
		return core.FetchFailedSentinel
	}

	return strings.Join(strings.Fields(text), " ")
}
