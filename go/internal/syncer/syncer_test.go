package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/internal/events"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/puckpool/livesync/go/internal/participation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	eventIDs     []string
	resolveErr   error
	playsByEvent map[string][]models.ScoringPlay
	failEvents   map[string]bool
}

func (s *stubSource) ResolveEventIDs(context.Context, string) ([]string, error) {
	return s.eventIDs, s.resolveErr
}

func (s *stubSource) FetchPlayByPlay(_ context.Context, eventID string) ([]models.ScoringPlay, error) {
	if s.failEvents[eventID] {
		return nil, errors.New("upstream unavailable")
	}
	return s.playsByEvent[eventID], nil
}

type stubLocker struct {
	acquire    bool
	acquireErr error
	acquires   int
	heartbeats int
}

func (l *stubLocker) TryAcquire(context.Context, uuid.UUID, string) (bool, error) {
	l.acquires++
	return l.acquire, l.acquireErr
}

func (l *stubLocker) Heartbeat(context.Context, uuid.UUID, string) error {
	l.heartbeats++
	return nil
}

type stubTallies struct {
	written  []models.LiveTally
	writeErr error
}

func (t *stubTallies) WriteSnapshot(_ context.Context, tally models.LiveTally) error {
	if t.writeErr != nil {
		return t.writeErr
	}
	t.written = append(t.written, tally)
	return nil
}

type stubScores struct {
	updates      []participation.ScoreUpdate
	recomputeErr error
	calls        int
	lastTally    models.LiveTally
}

func (s *stubScores) Recompute(_ context.Context, _ uuid.UUID, tally models.LiveTally) ([]participation.ScoreUpdate, error) {
	s.calls++
	s.lastTally = tally
	return s.updates, s.recomputeErr
}

type stubPublisher struct {
	published []events.LiveScoreUpdate
}

func (p *stubPublisher) PublishLiveScores(_ context.Context, update events.LiveScoreUpdate) error {
	p.published = append(p.published, update)
	return nil
}

type fixture struct {
	source    *stubSource
	locks     *stubLocker
	tallies   *stubTallies
	scores    *stubScores
	publisher *stubPublisher
	syncer    *Syncer
}

func newFixture() *fixture {
	f := &fixture{
		source:    &stubSource{playsByEvent: map[string][]models.ScoringPlay{}, failEvents: map[string]bool{}},
		locks:     &stubLocker{acquire: true},
		tallies:   &stubTallies{},
		scores:    &stubScores{updates: []participation.ScoreUpdate{{ParticipationID: uuid.New(), LiveScore: 1}}},
		publisher: &stubPublisher{},
	}
	f.syncer = New(f.source, f.locks, f.tallies, f.scores, f.publisher, clockwork.NewFakeClock())
	return f
}

func lockedChallenge() models.Challenge {
	return models.Challenge{
		ID:       uuid.New(),
		GroupID:  uuid.New(),
		GameDate: "2026-01-15",
		Status:   models.ChallengeStatusLocked,
	}
}

func TestTickSkippedOnLockContention(t *testing.T) {
	f := newFixture()
	f.locks.acquire = false

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.Empty(t, f.tallies.written)
	assert.Zero(t, f.scores.calls)
	assert.Zero(t, f.locks.heartbeats)
}

func TestTickNoDate(t *testing.T) {
	f := newFixture()
	ch := lockedChallenge()
	ch.GameDate = ""

	outcome, err := f.syncer.Tick(context.Background(), ch)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoDate, outcome)
	assert.Empty(t, f.tallies.written)
}

func TestTickNoGamesWritesNothing(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = nil // off day

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoGames, outcome)
	assert.Empty(t, f.tallies.written, "prior tallies must not be overwritten with an empty result")
	assert.Zero(t, f.scores.calls)
}

func TestTickPartialFetchFailureStillOK(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = []string{"e1", "e2"}
	f.source.failEvents["e1"] = true
	f.source.playsByEvent["e2"] = []models.ScoringPlay{
		{EventID: "e2", ScorerID: "C", Period: 1, SecondsElapsed: 100},
	}

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)

	require.Len(t, f.tallies.written, 1)
	tally := f.tallies.written[0]
	assert.Equal(t, map[string]int{"C": 1}, tally.Goals, "tally reflects only the event that succeeded")
	assert.Equal(t, 1, f.scores.calls)
	assert.Equal(t, 1, f.locks.heartbeats)
}

func TestTickAllFetchesFailedRenewsHeartbeat(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = []string{"e1", "e2"}
	f.source.failEvents["e1"] = true
	f.source.failEvents["e2"] = true

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoData, outcome)
	assert.Empty(t, f.tallies.written)
	assert.Zero(t, f.scores.calls)
	assert.Equal(t, 1, f.locks.heartbeats, "holder keeps the lock so instances don't stampede a failing upstream")
}

func TestTickOKPathStampsAndPublishes(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = []string{"e1"}
	f.source.playsByEvent["e1"] = []models.ScoringPlay{
		{EventID: "e1", ScorerID: "A", Assist1ID: "B", Period: 1, SecondsElapsed: 331},
	}
	ch := lockedChallenge()

	outcome, err := f.syncer.Tick(context.Background(), ch)

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)

	require.Len(t, f.tallies.written, 1)
	tally := f.tallies.written[0]
	assert.Equal(t, ch.ID, tally.ChallengeID)
	assert.False(t, tally.UpdatedAt.IsZero())
	assert.Equal(t, tally, f.scores.lastTally)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, ch.ID.String(), f.publisher.published[0].ChallengeID)
	assert.Equal(t, f.scores.updates, f.publisher.published[0].Scores)

	assert.Equal(t, 1, f.locks.heartbeats)
}

func TestTickResolveErrorIsErrorOutcome(t *testing.T) {
	f := newFixture()
	f.source.resolveErr = errors.New("schedule down")

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	assert.Error(t, err)
	assert.Equal(t, OutcomeError, outcome)
}

func TestTickPersistenceFailureIsErrorOutcome(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = []string{"e1"}
	f.source.playsByEvent["e1"] = []models.ScoringPlay{{EventID: "e1", ScorerID: "A"}}
	f.tallies.writeErr = errors.New("redis down")

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	assert.Error(t, err)
	assert.Equal(t, OutcomeError, outcome)
	assert.Zero(t, f.scores.calls, "scores are not recomputed against an unpersisted tally")
}

func TestTickRecomputeFailureIsErrorOutcome(t *testing.T) {
	f := newFixture()
	f.source.eventIDs = []string{"e1"}
	f.source.playsByEvent["e1"] = []models.ScoringPlay{{EventID: "e1", ScorerID: "A"}}
	f.scores.recomputeErr = errors.New("pg down")

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	assert.Error(t, err)
	assert.Equal(t, OutcomeError, outcome)
	assert.Empty(t, f.publisher.published)
}

func TestTickWithoutPublisher(t *testing.T) {
	f := newFixture()
	f.syncer = New(f.source, f.locks, f.tallies, f.scores, nil, clockwork.NewFakeClock())
	f.source.eventIDs = []string{"e1"}
	f.source.playsByEvent["e1"] = []models.ScoringPlay{{EventID: "e1", ScorerID: "A"}}

	outcome, err := f.syncer.Tick(context.Background(), lockedChallenge())

	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, outcome)
}
