package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSortByRecency(t *testing.T) {
	items := []Item{
		{ID: "t1", PublishedAt: ts("2024-01-01T00:00:00Z")},
		{ID: "t2", PublishedAt: ts("2024-01-03T00:00:00Z")},
		{ID: "t3"},
	}

	SortByRecency(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	assert.Equal(t, []string{"t2", "t1", "t3"}, got)
}

func TestSortByRecencyKeepsUntimestampedOrder(t *testing.T) {
	items := []Item{
		{ID: "a"},
		{ID: "b"},
		{ID: "new", PublishedAt: ts("2024-06-01T00:00:00Z")},
		{ID: "c"},
	}

	SortByRecency(items)

	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	assert.Equal(t, []string{"new", "a", "b", "c"}, got)
}
