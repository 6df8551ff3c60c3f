package synclock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a holder may go without a heartbeat before any other
// instance may take the lock over.
const DefaultTTL = 90 * time.Second

// Store persists per-challenge lock records. Get returns (nil, nil) when no
// lock exists yet.
type Store interface {
	Get(ctx context.Context, challengeID uuid.UUID) (*models.SyncLock, error)
	Claim(ctx context.Context, lock models.SyncLock) error
	Touch(ctx context.Context, challengeID uuid.UUID, holderID string, at time.Time) error
}

// Coordinator implements a TTL-based best-effort single-writer lock per
// challenge.
//
// This is deliberately NOT a leader-election protocol. Every downstream write
// the lock guards is a pure, idempotent full overwrite, so two holders racing
// briefly produce redundant work, never corruption. The lock's only job is to
// bound wasted fetches against the upstream feed; last-writer-wins on the
// claim is an accepted outcome and nothing stronger is needed.
type Coordinator struct {
	store Store
	ttl   time.Duration
	clock clockwork.Clock
}

func NewCoordinator(store Store, ttl time.Duration, clock clockwork.Clock) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Coordinator{
		store: store,
		ttl:   ttl,
		clock: clock,
	}
}

// TryAcquire claims the challenge's lock if it is unheld, already ours, or
// held by an owner whose heartbeat is older than the TTL (takeover). It
// returns false without mutating anything when a different holder is still
// fresh.
func (c *Coordinator) TryAcquire(ctx context.Context, challengeID uuid.UUID, holderID string) (bool, error) {
	current, err := c.store.Get(ctx, challengeID)
	if err != nil {
		return false, err
	}

	now := c.clock.Now()

	if current != nil && current.HolderID != holderID {
		if now.Sub(current.HeartbeatAt) <= c.ttl {
			log.Debug().
				Str("challenge_id", challengeID.String()).
				Str("holder", current.HolderID).
				Time("heartbeat_at", current.HeartbeatAt).
				Msg("lock held by fresh owner, skipping")
			return false, nil
		}
		log.Info().
			Str("challenge_id", challengeID.String()).
			Str("stale_holder", current.HolderID).
			Str("new_holder", holderID).
			Msg("taking over expired sync lock")
	}

	if err := c.store.Claim(ctx, models.SyncLock{
		ChallengeID: challengeID,
		HolderID:    holderID,
		HeartbeatAt: now,
	}); err != nil {
		return false, err
	}

	return true, nil
}

// Heartbeat stamps a renewal for the given holder. It does not re-validate
// ownership; callers must only invoke it while they believe they hold the
// lock.
func (c *Coordinator) Heartbeat(ctx context.Context, challengeID uuid.UUID, holderID string) error {
	return c.store.Touch(ctx, challengeID, holderID, c.clock.Now())
}
