// Package page extracts display enrichment from article pages: the
// Open Graph image for a link, and plain text from HTML fragments.
package page

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ImageFinder resolves a preview image URL for an article link.
type ImageFinder struct {
	client    *http.Client
	userAgent string
}

// NewImageFinder creates a finder with the given outbound user agent.
func NewImageFinder(userAgent string) *ImageFinder {
	return &ImageFinder{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: userAgent,
	}
}

// ImageURL fetches the page at link and returns the content of its
// og:image meta tag. Any failure (timeout, bad status, unparsable
// document, missing tag) yields an empty string; enrichment is
// best-effort and never blocks delivery.
func (f *ImageFinder) ImageURL(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	url, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	return strings.TrimSpace(url)
}

// Text strips markup from an HTML fragment, returning its text content.
// Malformed input degrades to the raw string rather than an error.
func Text(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}
