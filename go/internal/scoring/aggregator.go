package scoring

import (
	"sort"

	"github.com/puckpool/livesync/go/internal/models"
)

// Aggregate reduces a set of scoring plays to per-athlete contribution counts
// plus a chronological goal feed. Counts are always computed from scratch over
// the full play set, never accumulated across ticks, so re-running with the
// same input is byte-identical and a prior partial write self-heals on the
// next tick.
//
// Plays with missing optional fields (no assists, unknown team) contribute
// zero to the relevant counters and are otherwise kept. The feed is sorted by
// (period, seconds elapsed) ascending; ties keep input order.
func Aggregate(plays []models.ScoringPlay) models.LiveTally {
	tally := models.LiveTally{
		Goals:         make(map[string]int),
		FirstAssists:  make(map[string]int),
		SecondAssists: make(map[string]int),
		Feed:          make([]models.ScoringPlay, 0, len(plays)),
	}

	for _, play := range plays {
		if play.ScorerID != "" {
			tally.Goals[play.ScorerID]++
		}
		if play.Assist1ID != "" {
			tally.FirstAssists[play.Assist1ID]++
		}
		if play.Assist2ID != "" {
			tally.SecondAssists[play.Assist2ID]++
		}
		tally.Feed = append(tally.Feed, play)
	}

	sort.SliceStable(tally.Feed, func(i, j int) bool {
		a, b := tally.Feed[i], tally.Feed[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.SecondsElapsed < b.SecondsElapsed
	})

	return tally
}

// Score computes one participation's live score: the weighted sum of tallied
// contributions over the picked athletes. Unknown athlete IDs simply
// contribute zero.
func Score(picks []string, tally models.LiveTally, w Weights) float64 {
	var total float64
	for _, athleteID := range picks {
		total += w.Goal * float64(tally.Goals[athleteID])
		total += w.FirstAssist * float64(tally.FirstAssists[athleteID])
		total += w.SecondAssist * float64(tally.SecondAssists[athleteID])
	}
	return total
}
