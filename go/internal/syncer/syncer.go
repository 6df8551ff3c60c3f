package syncer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/internal/events"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/puckpool/livesync/go/internal/participation"
	"github.com/puckpool/livesync/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// EventSource resolves a game date to event IDs and fetches one event's
// scoring plays. Implementations retry internally; an error from
// FetchPlayByPlay means attempts are exhausted.
type EventSource interface {
	ResolveEventIDs(ctx context.Context, date string) ([]string, error)
	FetchPlayByPlay(ctx context.Context, eventID string) ([]models.ScoringPlay, error)
}

// Locker is the per-challenge single-writer coordination the tick runs under.
type Locker interface {
	TryAcquire(ctx context.Context, challengeID uuid.UUID, holderID string) (bool, error)
	Heartbeat(ctx context.Context, challengeID uuid.UUID, holderID string) error
}

// TallyStore persists the aggregated snapshot for UI reads.
type TallyStore interface {
	WriteSnapshot(ctx context.Context, t models.LiveTally) error
}

// ScoreRecomputer recomputes and persists all participant live scores for a
// challenge against a tally.
type ScoreRecomputer interface {
	Recompute(ctx context.Context, challengeID uuid.UUID, tally models.LiveTally) ([]participation.ScoreUpdate, error)
}

// Publisher fans out recomputed scores to push surfaces. Optional.
type Publisher interface {
	PublishLiveScores(ctx context.Context, update events.LiveScoreUpdate) error
}

const (
	defaultFetchBudget = 25 * time.Second
)

// Syncer executes one sync tick for one challenge: lock, resolve events,
// fetch play-by-play best-effort, aggregate, persist the tally snapshot,
// recompute scores, renew the heartbeat.
type Syncer struct {
	source      EventSource
	locks       Locker
	tallies     TallyStore
	scores      ScoreRecomputer
	publisher   Publisher // may be nil
	clock       clockwork.Clock
	instanceID  string
	fetchBudget time.Duration
}

func New(source EventSource, locks Locker, tallies TallyStore, scores ScoreRecomputer, publisher Publisher, clock clockwork.Clock) *Syncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Syncer{
		source:      source,
		locks:       locks,
		tallies:     tallies,
		scores:      scores,
		publisher:   publisher,
		clock:       clock,
		instanceID:  uuid.New().String()[:8], // short ID for logging and lock ownership
		fetchBudget: defaultFetchBudget,
	}
}

// SetFetchBudget overrides the soft deadline on the fetch phase of a tick.
func (s *Syncer) SetFetchBudget(d time.Duration) {
	if d > 0 {
		s.fetchBudget = d
	}
}

func (s *Syncer) InstanceID() string {
	return s.instanceID
}

// Tick runs one full synchronization pass for the challenge and reports its
// outcome.
func (s *Syncer) Tick(ctx context.Context, ch models.Challenge) (Outcome, error) {
	start := s.clock.Now()

	outcome, err := s.tick(ctx, ch)

	elapsed := s.clock.Since(start)
	observeTick(outcome, elapsed)

	evt := log.Info()
	if err != nil {
		evt = log.Error().Err(err)
	}
	evt.
		Str("challenge_id", ch.ID.String()).
		Str("instance", s.instanceID).
		Str("outcome", string(outcome)).
		Dur("elapsed", elapsed).
		Msg("sync tick finished")

	return outcome, err
}

func (s *Syncer) tick(ctx context.Context, ch models.Challenge) (Outcome, error) {
	acquired, err := s.locks.TryAcquire(ctx, ch.ID, s.instanceID)
	if err != nil {
		return OutcomeError, err
	}
	if !acquired {
		return OutcomeSkipped, nil
	}

	if ch.GameDate == "" {
		return OutcomeNoDate, nil
	}

	// The fetch phase gets a soft deadline so one unreachable event cannot
	// stall the tick; whatever data arrived in time is used as-is.
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchBudget)
	defer cancel()

	eventIDs, err := s.source.ResolveEventIDs(fetchCtx, ch.GameDate)
	if err != nil {
		return OutcomeError, err
	}
	if len(eventIDs) == 0 {
		return OutcomeNoGames, nil
	}

	plays, fetched := s.fetchAll(fetchCtx, ch, eventIDs)
	if fetched == 0 {
		// Events exist but nothing yielded data. Renew the heartbeat anyway:
		// the upstream is the likely culprit, and releasing the lock would
		// only stampede the other instances into the same failing fetches.
		// TTL takeover still covers a crashed holder.
		s.heartbeat(ctx, ch)
		return OutcomeNoData, nil
	}

	tally := scoring.Aggregate(plays)
	tally.ChallengeID = ch.ID
	tally.UpdatedAt = s.clock.Now()

	if err := s.tallies.WriteSnapshot(ctx, tally); err != nil {
		return OutcomeError, err
	}

	updates, err := s.scores.Recompute(ctx, ch.ID, tally)
	if err != nil {
		return OutcomeError, err
	}

	if s.publisher != nil && len(updates) > 0 {
		if err := s.publisher.PublishLiveScores(ctx, events.LiveScoreUpdate{
			ChallengeID: ch.ID.String(),
			Scores:      updates,
			UpdatedAt:   tally.UpdatedAt,
		}); err != nil {
			// Fan-out is best effort; the persisted records are the truth.
			log.Warn().Err(err).Str("challenge_id", ch.ID.String()).Msg("failed to publish live scores")
		}
	}

	s.heartbeat(ctx, ch)
	return OutcomeOK, nil
}

// fetchAll collects scoring plays across all events, dropping events whose
// fetch failed after retries. Partial data is accepted: under-reporting for a
// tick beats blocking every participant's score.
func (s *Syncer) fetchAll(ctx context.Context, ch models.Challenge, eventIDs []string) ([]models.ScoringPlay, int) {
	var plays []models.ScoringPlay
	fetched := 0

	for _, eventID := range eventIDs {
		eventPlays, err := s.source.FetchPlayByPlay(ctx, eventID)
		if err != nil {
			fetchFailuresTotal.Inc()
			log.Warn().
				Err(err).
				Str("challenge_id", ch.ID.String()).
				Str("event_id", eventID).
				Msg("dropping event from tick after failed fetch")
			continue
		}
		fetched++
		plays = append(plays, eventPlays...)
	}

	return plays, fetched
}

func (s *Syncer) heartbeat(ctx context.Context, ch models.Challenge) {
	if err := s.locks.Heartbeat(ctx, ch.ID, s.instanceID); err != nil {
		log.Warn().Err(err).Str("challenge_id", ch.ID.String()).Msg("failed to renew lock heartbeat")
	}
}
