package tally

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/redis/go-redis/v9"
)

// SnapshotTTL ages abandoned challenges out of the cache. Any challenge still
// being synced has its snapshot rewritten every tick, far inside the window.
const SnapshotTTL = 24 * time.Hour

// Store persists LiveTally snapshots to Redis. Each write replaces the whole
// snapshot; readers always see either the previous tick's tally or the new
// one, never a partial mutation.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func snapshotKey(challengeID uuid.UUID) string {
	return fmt.Sprintf("challenge:%s:tally", challengeID)
}

func (s *Store) WriteSnapshot(ctx context.Context, t models.LiveTally) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling tally: %w", err)
	}

	return s.client.Set(ctx, snapshotKey(t.ChallengeID), data, SnapshotTTL).Err()
}

func (s *Store) ReadSnapshot(ctx context.Context, challengeID uuid.UUID) (*models.LiveTally, error) {
	data, err := s.client.Get(ctx, snapshotKey(challengeID)).Result()
	if err != nil {
		return nil, err
	}

	var t models.LiveTally
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("unmarshaling tally: %w", err)
	}

	return &t, nil
}
