package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"feedpost/internal/config"
	"feedpost/internal/ledger"
	"feedpost/internal/scheduler"
	"feedpost/pkg/feed"
	"feedpost/pkg/notify"
	"feedpost/pkg/page"
)

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func buildScheduler(cfg *config.Config, db *ledger.Ledger, log zerolog.Logger) *scheduler.Scheduler {
	fetcher := feed.NewFetcher(cfg.RSSURL, cfg.UserAgent)
	images := page.NewImageFinder(cfg.UserAgent)
	notifier := notify.NewDiscord(cfg.WebhookURL, notify.Options{
		Username:  cfg.DiscordUsername,
		AvatarURL: cfg.DiscordAvatarURL,
	}, images)

	return scheduler.New(
		fetcher, db, notifier,
		scheduler.NewClock(), log,
		cfg.CheckInterval(),
		cfg.MaxPostsPerCycle,
		cfg.DelayBetweenPosts(),
	)
}

func runDaemon() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	db, err := ledger.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := buildScheduler(cfg, db, log)
	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runOnce() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	db, err := ledger.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	sched := buildScheduler(cfg, db, log)
	posted := sched.RunOnce(context.Background())
	log.Info().Int("posted", posted).Msg("cycle complete")
	return nil
}

func runStatus(limit int) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := ledger.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	count, err := db.Count(ctx)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}

	records, err := db.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("list recent items: %w", err)
	}

	fmt.Printf("%d items posted\n", count)
	if len(records) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POSTED\tTITLE\tLINK")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			time.Unix(r.PostedAt, 0).UTC().Format(time.RFC3339), r.Title, r.Link)
	}
	return w.Flush()
}
