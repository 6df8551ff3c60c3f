package models

import (
	"time"

	"github.com/google/uuid"
)

// Participation is one user's committed picks for a challenge. Picks are
// immutable after the challenge locks; LiveScore and LiveUpdatedAt are owned
// by the score recomputer and overwritten on every sync tick.
type Participation struct {
	ID            uuid.UUID  `json:"id"`
	ChallengeID   uuid.UUID  `json:"challenge_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Picks         []string   `json:"picks"` // external athlete IDs
	LiveScore     float64    `json:"live_score"`
	LiveUpdatedAt *time.Time `json:"live_updated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
