// Package notify delivers one message per feed item to a
// Discord-compatible webhook endpoint.
package notify

import (
	"context"
	"fmt"
)

// DeliveryError reports a webhook response outside the acceptance set.
// Body is truncated for diagnostics.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook status %d: %s", e.Status, e.Body)
}

// ImageFinder resolves an optional preview image URL for an article
// link. Implementations return "" when no image is available.
type ImageFinder interface {
	ImageURL(ctx context.Context, link string) string
}
