package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// Normalize converts a raw parsed entry into an Item. The second return
// value is false when the entry is unusable (empty title or link after
// trimming); such entries must never reach the ledger or the delivery
// client.
func Normalize(entry *gofeed.Item) (Item, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return Item{}, false
	}

	item := Item{
		ID:      DeriveID(entry),
		Title:   title,
		Link:    link,
		Summary: entry.Description,
	}

	if entry.PublishedParsed != nil {
		t := entry.PublishedParsed.UTC()
		item.PublishedAt = &t
	} else if entry.UpdatedParsed != nil {
		t := entry.UpdatedParsed.UTC()
		item.PublishedAt = &t
	}

	return item, true
}

// DeriveID picks the most stable identity available: the feed-provided
// guid, then the link, then a composite of trimmed title and the raw
// published/updated string for feeds that carry neither. Guids survive
// link rewrites, links survive title edits, the composite is the last
// resort for malformed feeds.
func DeriveID(entry *gofeed.Item) string {
	if guid := strings.TrimSpace(entry.GUID); guid != "" {
		return guid
	}
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	stamp := strings.TrimSpace(entry.Published)
	if stamp == "" {
		stamp = strings.TrimSpace(entry.Updated)
	}
	return strings.TrimSpace(entry.Title) + "::" + stamp
}
