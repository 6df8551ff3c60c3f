package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/clients/statsfeed"
	"github.com/puckpool/livesync/go/internal/challenge"
	"github.com/puckpool/livesync/go/internal/livescore"
	"github.com/puckpool/livesync/go/internal/participation"
	"github.com/puckpool/livesync/go/internal/syncer"
	"github.com/puckpool/livesync/go/internal/synclock"
	"github.com/puckpool/livesync/go/internal/tally"
	"github.com/redis/go-redis/v9"
)

func setupRunner(cfg *Config, pool *pgxpool.Pool, redisClient *redis.Client, publisher syncer.Publisher) *syncer.Runner {
	// Wire up dependency injection chain
	// Stores → domain components → syncer → runner
	clock := clockwork.NewRealClock()

	feed := statsfeed.New()
	if cfg.StatsFeed.BaseURL != "" {
		feed = statsfeed.NewWithBaseURL(cfg.StatsFeed.BaseURL)
	}
	feed.SetTimeout(cfg.feedTimeout())
	feed.SetRetry(cfg.StatsFeed.MaxAttempts, cfg.feedBackoff())

	lockStore := synclock.NewPGStore(pool, cfg.lockTTL())
	locks := synclock.NewCoordinator(lockStore, cfg.lockTTL(), clock)

	tallies := tally.NewStore(redisClient)

	participations := participation.NewRepository(pool)
	scores := livescore.NewRecomputer(participations, cfg.Scoring, clock)

	s := syncer.New(feed, locks, tallies, scores, publisher, clock)
	s.SetFetchBudget(cfg.fetchBudget())

	challenges := challenge.NewRepository(pool)

	return syncer.NewRunner(s, challenges, cfg.tickInterval(), cfg.Sync.Workers, clock)
}
