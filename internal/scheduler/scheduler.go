package scheduler

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"feedpost/pkg/feed"
)

// Fetcher retrieves the raw entries of the source feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]*gofeed.Item, error)
}

// Ledger is the durable dedup store consulted before every delivery.
type Ledger interface {
	Has(ctx context.Context, itemID string) (bool, error)
	Record(ctx context.Context, itemID, title, link string) error
}

// Notifier delivers one item to the downstream endpoint.
type Notifier interface {
	Send(ctx context.Context, item feed.Item) error
}

// Scheduler runs the polling loop: fetch, normalize, sort, filter
// through the ledger, deliver up to the per-cycle cap, record. One
// cycle runs fully to completion before the next starts; there is no
// concurrent delivery.
type Scheduler struct {
	fetcher  Fetcher
	ledger   Ledger
	notifier Notifier
	clock    Clock
	log      zerolog.Logger

	checkInterval     time.Duration
	maxPostsPerCycle  int
	delayBetweenPosts time.Duration
}

// New creates a scheduler.
func New(
	fetcher Fetcher,
	ledger Ledger,
	notifier Notifier,
	clock Clock,
	log zerolog.Logger,
	checkInterval time.Duration,
	maxPostsPerCycle int,
	delayBetweenPosts time.Duration,
) *Scheduler {
	if checkInterval <= 0 {
		checkInterval = 5 * time.Minute
	}
	if maxPostsPerCycle <= 0 {
		maxPostsPerCycle = 4
	}
	if clock == nil {
		clock = NewClock()
	}
	return &Scheduler{
		fetcher:           fetcher,
		ledger:            ledger,
		notifier:          notifier,
		clock:             clock,
		log:               log,
		checkInterval:     checkInterval,
		maxPostsPerCycle:  maxPostsPerCycle,
		delayBetweenPosts: delayBetweenPosts,
	}
}

// Run starts the polling loop. The first cycle runs immediately; after
// every cycle the scheduler sleeps the full check interval regardless
// of how many items were posted. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().
		Dur("check_interval", s.checkInterval).
		Int("max_posts_per_cycle", s.maxPostsPerCycle).
		Dur("delay_between_posts", s.delayBetweenPosts).
		Msg("scheduler running")

	for {
		posted := s.RunOnce(ctx)
		if ctx.Err() != nil {
			s.log.Info().Msg("scheduler stopped")
			return ctx.Err()
		}
		s.log.Info().Int("posted", posted).Msg("cycle complete")

		if err := s.clock.Sleep(ctx, s.checkInterval); err != nil {
			s.log.Info().Msg("scheduler stopped")
			return err
		}
	}
}

// RunOnce executes a single cycle and returns the number of items
// delivered. Every failure inside the cycle is handled here: a fetch
// error ends the cycle early, a per-item failure skips that item, and
// nothing propagates to the caller.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	entries, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("fetch failed, ending cycle")
		return 0
	}
	if len(entries) == 0 {
		s.log.Debug().Msg("feed has no entries")
		return 0
	}

	items := make([]feed.Item, 0, len(entries))
	for _, entry := range entries {
		item, ok := feed.Normalize(entry)
		if !ok {
			s.log.Debug().Str("title", entry.Title).Msg("dropping entry without title or link")
			continue
		}
		items = append(items, item)
	}
	feed.SortByRecency(items)

	posted := 0
	for _, item := range items {
		seen, err := s.ledger.Has(ctx, item.ID)
		if err != nil {
			s.log.Error().Err(err).Str("id", item.ID).Msg("ledger lookup failed, skipping item")
			continue
		}
		if seen {
			continue
		}

		if err := s.notifier.Send(ctx, item); err != nil {
			// Not recorded and not counted against the cap: the item
			// stays eligible for a future cycle.
			s.log.Error().Err(err).Str("id", item.ID).Str("title", item.Title).Msg("delivery failed")
			continue
		}

		if err := s.ledger.Record(ctx, item.ID, item.Title, item.Link); err != nil {
			// The item may be delivered again next cycle; that beats
			// silently losing it.
			s.log.Error().Err(err).Str("id", item.ID).Msg("ledger record failed")
		} else {
			s.log.Info().Str("id", item.ID).Str("title", item.Title).Msg("posted")
		}

		posted++
		if posted >= s.maxPostsPerCycle {
			break
		}
		if err := s.clock.Sleep(ctx, s.delayBetweenPosts); err != nil {
			return posted
		}
	}

	return posted
}
