package feed

import (
	"sort"
	"time"
)

// Item is the canonical representation of one feed entry eligible for
// delivery. Identity is deterministic: the same logical entry yields the
// same ID on every poll.
type Item struct {
	ID          string
	Title       string
	Link        string
	Summary     string
	PublishedAt *time.Time
}

// SortByRecency orders items newest first. Items without a publish time
// sort after all timestamped items, keeping their original relative
// order (stable sort).
func SortByRecency(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
