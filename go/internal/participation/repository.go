package participation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puckpool/livesync/go/internal/models"
)

// ScoreUpdate is one participation's recomputed live score.
type ScoreUpdate struct {
	ParticipationID uuid.UUID `json:"participation_id"`
	UserID          uuid.UUID `json:"user_id"`
	LiveScore       float64   `json:"live_score"`
}

// Repository reads participations and writes their live scores. Picks are
// read-only here; submission and the immutability deadline are enforced by the
// signup surface.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]models.Participation, error) {
	const query = `
		SELECT id, challenge_id, user_id, picks, live_score, live_updated_at, created_at
		FROM participations
		WHERE challenge_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	var participations []models.Participation
	for rows.Next() {
		var p models.Participation
		if err := rows.Scan(
			&p.ID,
			&p.ChallengeID,
			&p.UserID,
			&p.Picks,
			&p.LiveScore,
			&p.LiveUpdatedAt,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}

	return participations, nil
}

// BatchUpdateLiveScores writes every recomputed score in a single batch so the
// whole challenge moves to the new tick's view together and write amplification
// stays at one round trip per tick. The write is a full overwrite; re-running
// it with the same updates is a no-op in effect.
func (r *Repository) BatchUpdateLiveScores(ctx context.Context, updates []ScoreUpdate, updatedAt time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	const query = `
		UPDATE participations
		SET live_score = $2, live_updated_at = $3
		WHERE id = $1`

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(query, u.ParticipationID, u.LiveScore, updatedAt)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to write live scores: %w", err)
		}
	}

	return nil
}
