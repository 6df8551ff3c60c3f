package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncLock is the per-challenge single-writer coordination record. At most one
// holder is non-expired at any instant; expiry is derived from HeartbeatAt and
// the coordinator's TTL rather than stored.
type SyncLock struct {
	ChallengeID uuid.UUID `json:"challenge_id"`
	HolderID    string    `json:"holder_id"`
	HeartbeatAt time.Time `json:"heartbeat_at"`
}
