package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("RSS_URL", "https://example.com/feed")
	t.Setenv("SQLITE_PATH", "/tmp/feedpost.db")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.CheckIntervalSeconds)
	assert.Equal(t, 4, cfg.MaxPostsPerCycle)
	assert.Equal(t, 3, cfg.DelayBetweenPostsSeconds)
	assert.Equal(t, "feedpost/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval())
	assert.Equal(t, 3*time.Second, cfg.DelayBetweenPosts())
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECK_INTERVAL_SECONDS", "60")
	t.Setenv("MAX_POSTS_PER_CYCLE", "2")
	t.Setenv("DELAY_BETWEEN_POSTS_SECONDS", "1")
	t.Setenv("USER_AGENT", "custom-agent/2.0")
	t.Setenv("DISCORD_USERNAME", "newsbot")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.CheckIntervalSeconds)
	assert.Equal(t, 2, cfg.MaxPostsPerCycle)
	assert.Equal(t, 1, cfg.DelayBetweenPostsSeconds)
	assert.Equal(t, "custom-agent/2.0", cfg.UserAgent)
	assert.Equal(t, "newsbot", cfg.DiscordUsername)
}

func TestLoadUnparsableIntKeepsDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECK_INTERVAL_SECONDS", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.CheckIntervalSeconds)
}

func TestLoadYAMLFileWithEnvWinning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
webhook_url: https://example.com/hook
rss_url: https://example.com/feed
sqlite_path: /tmp/file.db
max_posts_per_cycle: 7
`), 0o644))

	t.Setenv("MAX_POSTS_PER_CYCLE", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", cfg.WebhookURL)
	assert.Equal(t, 9, cfg.MaxPostsPerCycle)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing webhook", func(c *Config) { c.WebhookURL = "" }, "WEBHOOK_URL"},
		{"bad scheme", func(c *Config) { c.WebhookURL = "ftp://example.com/hook" }, "http or https"},
		{"missing rss url", func(c *Config) { c.RSSURL = "" }, "RSS_URL"},
		{"missing sqlite path", func(c *Config) { c.SQLitePath = "" }, "SQLITE_PATH"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.WebhookURL = "https://example.com/hook"
			cfg.RSSURL = "https://example.com/feed"
			cfg.SQLitePath = "/tmp/file.db"
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
