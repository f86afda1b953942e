package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration. Environment variables are the
// primary interface; an optional YAML file may set the same keys, with
// the environment always winning.
type Config struct {
	WebhookURL string `yaml:"webhook_url"`
	RSSURL     string `yaml:"rss_url"`
	SQLitePath string `yaml:"sqlite_path"`

	CheckIntervalSeconds     int `yaml:"check_interval_seconds"`
	MaxPostsPerCycle         int `yaml:"max_posts_per_cycle"`
	DelayBetweenPostsSeconds int `yaml:"delay_between_posts_seconds"`

	UserAgent        string `yaml:"user_agent"`
	DiscordUsername  string `yaml:"discord_username"`
	DiscordAvatarURL string `yaml:"discord_avatar_url"`

	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with sensible defaults. Required keys
// (webhook, feed, storage path) have no default and must be provided.
func Default() *Config {
	return &Config{
		CheckIntervalSeconds:     300,
		MaxPostsPerCycle:         4,
		DelayBetweenPostsSeconds: 3,
		UserAgent:                "feedpost/1.0",
		LogLevel:                 "info",
	}
}

// Load reads configuration from an optional YAML file, applies env var
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required keys. Failures here are fatal at
// startup; nothing inside the polling loop re-validates.
func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL is required")
	}
	u, err := url.Parse(c.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("WEBHOOK_URL must be an http or https URI, got %q", c.WebhookURL)
	}
	if c.RSSURL == "" {
		return fmt.Errorf("RSS_URL is required")
	}
	if c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required")
	}
	return nil
}

// CheckInterval returns the inter-cycle sleep.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// DelayBetweenPosts returns the inter-item sleep within one cycle.
func (c *Config) DelayBetweenPosts() time.Duration {
	return time.Duration(c.DelayBetweenPostsSeconds) * time.Second
}

// applyEnvOverrides overrides config values with environment variables.
// Unparsable numeric values keep the prior value.
func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("WEBHOOK_URL", &cfg.WebhookURL)
	setString("RSS_URL", &cfg.RSSURL)
	setString("SQLITE_PATH", &cfg.SQLitePath)
	setInt("CHECK_INTERVAL_SECONDS", &cfg.CheckIntervalSeconds)
	setInt("MAX_POSTS_PER_CYCLE", &cfg.MaxPostsPerCycle)
	setInt("DELAY_BETWEEN_POSTS_SECONDS", &cfg.DelayBetweenPostsSeconds)
	setString("USER_AGENT", &cfg.UserAgent)
	setString("DISCORD_USERNAME", &cfg.DiscordUsername)
	setString("DISCORD_AVATAR_URL", &cfg.DiscordAvatarURL)
	setString("LOG_LEVEL", &cfg.LogLevel)
}
