package syncer

// Outcome classifies one tick for observability. None of these are fatal to
// the process; the runner simply waits for the next scheduled tick.
type Outcome string

const (
	// OutcomeOK means tallies and live scores were recomputed and persisted.
	OutcomeOK Outcome = "ok"
	// OutcomeSkipped means another instance holds the sync lock.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoDate means the challenge has no backing game date.
	OutcomeNoDate Outcome = "no_date"
	// OutcomeNoGames means no events are scheduled for the challenge's date.
	OutcomeNoGames Outcome = "no_games"
	// OutcomeNoData means events were scheduled but none yielded play-by-play
	// data (every fetch failed).
	OutcomeNoData Outcome = "no_data"
	// OutcomeError means an unexpected failure ended the tick early; the next
	// tick recomputes everything from scratch.
	OutcomeError Outcome = "error"
)
