package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveTally is the aggregated per-athlete contribution snapshot for one
// challenge plus a chronological goal feed. It is rebuilt from scratch and
// fully overwritten on every sync tick, never partially mutated.
type LiveTally struct {
	ChallengeID   uuid.UUID      `json:"challenge_id"`
	Goals         map[string]int `json:"goals"`
	FirstAssists  map[string]int `json:"first_assists"`
	SecondAssists map[string]int `json:"second_assists"`
	Feed          []ScoringPlay  `json:"feed"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
