package challenge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/puckpool/livesync/go/internal/models"
)

// Repository reads challenge records. The engine never creates or settles
// challenges; those transitions belong to the group-management surface.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetChallenge(ctx context.Context, id uuid.UUID) (*models.Challenge, error) {
	const query = `
		SELECT id, group_id, game_date, pick_count, status, created_at, settled_at
		FROM challenges
		WHERE id = $1`

	ch, err := scanChallenge(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return ch, nil
}

// ListDueForSync returns the challenges the engine should keep live scores
// fresh for: locked (picks committed, not yet settled) with a backing date.
func (r *Repository) ListDueForSync(ctx context.Context) ([]models.Challenge, error) {
	const query = `
		SELECT id, group_id, game_date, pick_count, status, created_at, settled_at
		FROM challenges
		WHERE status = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, string(models.ChallengeStatusLocked))
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges due for sync: %w", err)
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate challenges: %w", err)
	}

	return challenges, nil
}

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var ch models.Challenge
	if err := row.Scan(
		&ch.ID,
		&ch.GroupID,
		&ch.GameDate,
		&ch.PickCount,
		&ch.Status,
		&ch.CreatedAt,
		&ch.SettledAt,
	); err != nil {
		return nil, err
	}
	return &ch, nil
}
