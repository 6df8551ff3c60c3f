package synclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puckpool/livesync/go/internal/models"
)

// PGStore keeps lock records in the sync_locks table. Claim is a single upsert
// statement so the read-check-write in the coordinator collapses to one
// compare-and-swap at the database: the conditional WHERE only lets the row be
// rewritten by its current holder or after the freshness window has lapsed.
type PGStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPGStore(pool *pgxpool.Pool, ttl time.Duration) *PGStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PGStore{pool: pool, ttl: ttl}
}

func (s *PGStore) Get(ctx context.Context, challengeID uuid.UUID) (*models.SyncLock, error) {
	const query = `
		SELECT challenge_id, holder_id, heartbeat_at
		FROM sync_locks
		WHERE challenge_id = $1`

	var lock models.SyncLock
	err := s.pool.QueryRow(ctx, query, challengeID).Scan(&lock.ChallengeID, &lock.HolderID, &lock.HeartbeatAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync lock: %w", err)
	}

	return &lock, nil
}

func (s *PGStore) Claim(ctx context.Context, lock models.SyncLock) error {
	const query = `
		INSERT INTO sync_locks (challenge_id, holder_id, heartbeat_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (challenge_id) DO UPDATE
		SET holder_id = EXCLUDED.holder_id, heartbeat_at = EXCLUDED.heartbeat_at
		WHERE sync_locks.holder_id = EXCLUDED.holder_id
		   OR sync_locks.heartbeat_at < EXCLUDED.heartbeat_at - $4::interval`

	if _, err := s.pool.Exec(ctx, query, lock.ChallengeID, lock.HolderID, lock.HeartbeatAt, s.ttl); err != nil {
		return fmt.Errorf("failed to claim sync lock: %w", err)
	}
	return nil
}

func (s *PGStore) Touch(ctx context.Context, challengeID uuid.UUID, holderID string, at time.Time) error {
	const query = `
		UPDATE sync_locks
		SET holder_id = $2, heartbeat_at = $3
		WHERE challenge_id = $1`

	if _, err := s.pool.Exec(ctx, query, challengeID, holderID, at); err != nil {
		return fmt.Errorf("failed to touch sync lock: %w", err)
	}
	return nil
}
