package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"

// Fetcher downloads and parses one RSS/Atom feed.
type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	url       string
	userAgent string
}

// NewFetcher creates a fetcher for the given feed URL.
func NewFetcher(url, userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		parser:    gofeed.NewParser(),
		url:       url,
		userAgent: userAgent,
	}
}

// Fetch retrieves the feed and returns its raw entries. Entries are
// returned as parsed, not normalized; callers run Normalize on each.
func (f *Fetcher) Fetch(ctx context.Context) ([]*gofeed.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", f.url, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.url, err)
	}

	return parsed.Items, nil
}
