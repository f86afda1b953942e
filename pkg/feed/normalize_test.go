package feed

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	published := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	entry := &gofeed.Item{
		GUID:            "guid-1",
		Title:           "  Patch Notes  ",
		Link:            " https://example.com/patch-notes ",
		Description:     "<p>Highlights</p>",
		PublishedParsed: &published,
	}

	item, ok := Normalize(entry)
	require.True(t, ok)
	assert.Equal(t, "guid-1", item.ID)
	assert.Equal(t, "Patch Notes", item.Title)
	assert.Equal(t, "https://example.com/patch-notes", item.Link)
	assert.Equal(t, "<p>Highlights</p>", item.Summary)
	require.NotNil(t, item.PublishedAt)
	assert.Equal(t, published, *item.PublishedAt)
}

func TestNormalizeDropsInvalidEntries(t *testing.T) {
	cases := []struct {
		name  string
		entry *gofeed.Item
	}{
		{"empty title", &gofeed.Item{Link: "https://example.com/a"}},
		{"empty link", &gofeed.Item{Title: "Some Title"}},
		{"whitespace title", &gofeed.Item{Title: "   ", Link: "https://example.com/a"}},
		{"whitespace link", &gofeed.Item{Title: "Some Title", Link: "  "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Normalize(tc.entry)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeFallsBackToUpdatedTime(t *testing.T) {
	updated := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	item, ok := Normalize(&gofeed.Item{
		Title:         "Title",
		Link:          "https://example.com/a",
		UpdatedParsed: &updated,
	})
	require.True(t, ok)
	require.NotNil(t, item.PublishedAt)
	assert.Equal(t, updated, *item.PublishedAt)
}

func TestNormalizeWithoutTimestamp(t *testing.T) {
	item, ok := Normalize(&gofeed.Item{
		Title: "Title",
		Link:  "https://example.com/a",
	})
	require.True(t, ok)
	assert.Nil(t, item.PublishedAt)
}

func TestDeriveID(t *testing.T) {
	cases := []struct {
		name  string
		entry *gofeed.Item
		want  string
	}{
		{
			"guid preferred",
			&gofeed.Item{GUID: "guid-1", Link: "https://example.com/a", Title: "Title"},
			"guid-1",
		},
		{
			"link when guid absent",
			&gofeed.Item{Link: "https://example.com/a", Title: "Title"},
			"https://example.com/a",
		},
		{
			"title and published string as last resort",
			&gofeed.Item{Title: "Patch Notes", Published: "2024-02-01T00:00:00Z"},
			"Patch Notes::2024-02-01T00:00:00Z",
		},
		{
			"updated string when published absent",
			&gofeed.Item{Title: "Patch Notes", Updated: "2024-02-02T00:00:00Z"},
			"Patch Notes::2024-02-02T00:00:00Z",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveID(tc.entry))
		})
	}
}

func TestDeriveIDDeterministic(t *testing.T) {
	entry := &gofeed.Item{Title: "Patch Notes", Published: "2024-02-01T00:00:00Z"}
	assert.Equal(t, DeriveID(entry), DeriveID(entry))
}
