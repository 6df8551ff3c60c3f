package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ChallengeSource lists the challenges the runner should keep in sync.
type ChallengeSource interface {
	ListDueForSync(ctx context.Context) ([]models.Challenge, error)
}

const (
	defaultTickInterval = 30 * time.Second
	defaultWorkers      = 4
)

// Runner drives the polling loop: on every interval it lists the challenges
// due for sync and dispatches a tick per challenge to a worker pool. A
// challenge already being ticked is skipped until its tick finishes, so a
// slow tick never piles up behind itself.
type Runner struct {
	syncer     *Syncer
	challenges ChallengeSource
	clock      clockwork.Clock
	interval   time.Duration

	numWorkers int
	workCh     chan models.Challenge

	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

func NewRunner(syncer *Syncer, challenges ChallengeSource, interval time.Duration, workers int, clock clockwork.Clock) *Runner {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		syncer:     syncer,
		challenges: challenges,
		clock:      clock,
		interval:   interval,
		numWorkers: workers,
		workCh:     make(chan models.Challenge, workers*2), // buffer to prevent blocking
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Run blocks until ctx is cancelled, ticking every interval.
func (r *Runner) Run(ctx context.Context) error {
	log.Info().
		Str("instance", r.syncer.InstanceID()).
		Dur("interval", r.interval).
		Int("workers", r.numWorkers).
		Msg("sync runner started")

	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < r.numWorkers; i++ {
		wg.Add(1)
		go r.worker(workerCtx, &wg, i)
	}

	defer func() {
		cancelWorkers()
		close(r.workCh)
		wg.Wait()
		log.Info().Str("instance", r.syncer.InstanceID()).Msg("sync runner stopped")
	}()

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	// Tick immediately on start
	r.dispatch(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			r.dispatch(ctx)
		}
	}
}

// dispatch queues a tick for every due challenge not already in flight.
func (r *Runner) dispatch(ctx context.Context) {
	challenges, err := r.challenges.ListDueForSync(ctx)
	if err != nil {
		log.Error().Err(err).Str("instance", r.syncer.InstanceID()).Msg("failed to list challenges due for sync")
		return
	}

	for _, ch := range challenges {
		r.inFlightMu.Lock()
		if r.inFlight[ch.ID] {
			r.inFlightMu.Unlock()
			log.Debug().Str("challenge_id", ch.ID.String()).Msg("skipping challenge already in flight")
			continue
		}
		r.inFlight[ch.ID] = true
		r.inFlightMu.Unlock()

		select {
		case <-ctx.Done():
			r.clearInFlight(ch.ID)
			return
		case r.workCh <- ch:
		}
	}
}

func (r *Runner) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-r.workCh:
			if !ok {
				return
			}

			if _, err := r.syncer.Tick(ctx, ch); err != nil {
				log.Error().
					Err(err).
					Str("challenge_id", ch.ID.String()).
					Int("worker_id", workerID).
					Msg("sync tick failed")
			}

			r.clearInFlight(ch.ID)
		}
	}
}

func (r *Runner) clearInFlight(challengeID uuid.UUID) {
	r.inFlightMu.Lock()
	delete(r.inFlight, challengeID)
	r.inFlightMu.Unlock()
}
