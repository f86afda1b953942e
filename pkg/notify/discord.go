package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"feedpost/pkg/feed"
	"feedpost/pkg/page"
)

const (
	// Display truncation for the embed description. Identity is never
	// derived from the summary, so truncation here is safe.
	descriptionLimit = 300

	// Fallback wait when a 429 response carries no usable retry delay.
	defaultRetryAfter = 2 * time.Second

	maxErrorBody = 512

	embedColor = 0x5865F2
)

// Options adjusts how messages appear on the endpoint.
type Options struct {
	Username  string
	AvatarURL string
}

// Discord sends items to a Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
	opts       Options
	images     ImageFinder

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewDiscord creates a webhook delivery client. images may be nil to
// disable embed image enrichment.
func NewDiscord(webhookURL string, opts Options, images ImageFinder) *Discord {
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
		opts:       opts,
		images:     images,
		sleep:      time.Sleep,
	}
}

// Send posts one embed for the item. A 429 response suspends for the
// server-provided delay and retries exactly once; any other non-2xx
// response fails immediately with a DeliveryError. Transport errors are
// not retried.
func (d *Discord) Send(ctx context.Context, item feed.Item) error {
	body, err := d.buildPayload(ctx, item)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	status, respBody, header, err := d.post(ctx, body)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}

	if status == http.StatusTooManyRequests {
		d.sleep(retryDelay(respBody, header))
		status, respBody, _, err = d.post(ctx, body)
		if err != nil {
			return fmt.Errorf("send webhook (retry): %w", err)
		}
	}

	if status < 200 || status >= 300 {
		return &DeliveryError{Status: status, Body: truncate(string(respBody), maxErrorBody)}
	}

	return nil
}

func (d *Discord) buildPayload(ctx context.Context, item feed.Item) ([]byte, error) {
	embed := map[string]any{
		"title": item.Title,
		"url":   item.Link,
		"color": embedColor,
	}

	if desc := page.Text(item.Summary); desc != "" {
		embed["description"] = truncate(desc, descriptionLimit)
	}
	if item.PublishedAt != nil {
		embed["timestamp"] = item.PublishedAt.UTC().Format(time.RFC3339)
	}
	if d.images != nil {
		if imageURL := d.images.ImageURL(ctx, item.Link); imageURL != "" {
			embed["image"] = map[string]any{"url": imageURL}
		}
	}

	payload := map[string]any{
		"embeds": []map[string]any{embed},
	}
	if d.opts.Username != "" {
		payload["username"] = d.opts.Username
	}
	if d.opts.AvatarURL != "" {
		payload["avatar_url"] = d.opts.AvatarURL
	}

	return json.Marshal(payload)
}

func (d *Discord) post(ctx context.Context, body []byte) (int, []byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, respBody, resp.Header, nil
}

// retryDelay extracts the wait Discord asks for on a 429: the
// retry_after field of the JSON body (seconds), then the Retry-After
// header, then defaultRetryAfter when both are absent or unparsable.
func retryDelay(body []byte, header http.Header) time.Duration {
	var parsed struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return defaultRetryAfter
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
