package models

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeStatus tracks a challenge through its lifecycle
type ChallengeStatus string

const (
	ChallengeStatusOpen    ChallengeStatus = "open"
	ChallengeStatusLocked  ChallengeStatus = "locked"
	ChallengeStatusSettled ChallengeStatus = "settled"
)

// Challenge represents one prediction contest scoped to a single game date.
// A challenge is created by a group owner, locks at the signup deadline and
// settles once final scores are committed.
type Challenge struct {
	ID        uuid.UUID       `json:"id"`
	GroupID   uuid.UUID       `json:"group_id"`
	GameDate  string          `json:"game_date"` // YYYY-MM-DD in the league's reference timezone
	PickCount int             `json:"pick_count"`
	Status    ChallengeStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	SettledAt *time.Time      `json:"settled_at,omitempty"`
}
