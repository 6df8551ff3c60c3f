package livescore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/puckpool/livesync/go/internal/participation"
	"github.com/puckpool/livesync/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// ParticipationStore is what the recomputer needs from the participation
// repository.
type ParticipationStore interface {
	ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]models.Participation, error)
	BatchUpdateLiveScores(ctx context.Context, updates []participation.ScoreUpdate, updatedAt time.Time) error
}

// Recomputer turns a tally into per-participant live scores. Every run is a
// full recomputation over the tally and the committed picks; nothing is
// carried over between ticks, so a crash mid-batch is healed by the next run.
type Recomputer struct {
	parts   ParticipationStore
	weights scoring.Weights
	clock   clockwork.Clock
}

func NewRecomputer(parts ParticipationStore, weights scoring.Weights, clock clockwork.Clock) *Recomputer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recomputer{
		parts:   parts,
		weights: weights,
		clock:   clock,
	}
}

// Recompute loads every participation for the challenge, scores each against
// the tally and writes all scores as one batch. Participations with empty or
// malformed pick lists score zero but never abort the batch for everyone
// else. The returned updates are what was written, for fan-out.
func (r *Recomputer) Recompute(ctx context.Context, challengeID uuid.UUID, tally models.LiveTally) ([]participation.ScoreUpdate, error) {
	participations, err := r.parts.ListByChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participations: %w", err)
	}
	if len(participations) == 0 {
		return nil, nil
	}

	updates := make([]participation.ScoreUpdate, 0, len(participations))
	for _, p := range participations {
		if len(p.Picks) == 0 {
			log.Warn().
				Str("participation_id", p.ID.String()).
				Str("challenge_id", challengeID.String()).
				Msg("participation has no picks, scoring zero")
		}

		updates = append(updates, participation.ScoreUpdate{
			ParticipationID: p.ID,
			UserID:          p.UserID,
			LiveScore:       scoring.Score(p.Picks, tally, r.weights),
		})
	}

	if err := r.parts.BatchUpdateLiveScores(ctx, updates, r.clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to persist live scores: %w", err)
	}

	return updates, nil
}
