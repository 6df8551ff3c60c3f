package models

// ScoringPlay is a single goal record extracted from an upstream play-by-play
// feed. It only lives for the duration of one sync tick; it is never persisted.
type ScoringPlay struct {
	EventID        string `json:"event_id"`
	TeamID         string `json:"team_id,omitempty"` // event-owning team, may be absent
	ScorerID       string `json:"scorer_id"`
	Assist1ID      string `json:"assist1_id,omitempty"`
	Assist2ID      string `json:"assist2_id,omitempty"`
	Period         int    `json:"period"`
	SecondsElapsed int    `json:"seconds_elapsed"` // within the period, used only for feed ordering
}
