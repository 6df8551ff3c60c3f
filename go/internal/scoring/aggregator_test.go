package scoring

import (
	"testing"

	"github.com/puckpool/livesync/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSingleGoalOneAssist(t *testing.T) {
	plays := []models.ScoringPlay{
		{EventID: "e1", ScorerID: "A", Assist1ID: "B", Period: 1, SecondsElapsed: 331},
	}

	tally := Aggregate(plays)

	assert.Equal(t, map[string]int{"A": 1}, tally.Goals)
	assert.Equal(t, map[string]int{"B": 1}, tally.FirstAssists)
	assert.Empty(t, tally.SecondAssists)
	require.Len(t, tally.Feed, 1)
	assert.Equal(t, "A", tally.Feed[0].ScorerID)
}

func TestAggregateIsIdempotent(t *testing.T) {
	plays := []models.ScoringPlay{
		{EventID: "e1", ScorerID: "A", Assist1ID: "B", Assist2ID: "C", Period: 2, SecondsElapsed: 10},
		{EventID: "e1", ScorerID: "A", Period: 3, SecondsElapsed: 599},
		{EventID: "e2", ScorerID: "D", Assist1ID: "A", Period: 1, SecondsElapsed: 45},
	}

	first := Aggregate(plays)
	second := Aggregate(plays)

	assert.Equal(t, first, second)
}

func TestAggregateSupersetNeverDecreasesCounts(t *testing.T) {
	subset := []models.ScoringPlay{
		{EventID: "e1", ScorerID: "A", Assist1ID: "B", Period: 1, SecondsElapsed: 100},
		{EventID: "e1", ScorerID: "C", Period: 2, SecondsElapsed: 200},
	}
	superset := append([]models.ScoringPlay{}, subset...)
	superset = append(superset,
		models.ScoringPlay{EventID: "e2", ScorerID: "A", Assist2ID: "B", Period: 1, SecondsElapsed: 50},
	)

	small := Aggregate(subset)
	big := Aggregate(superset)

	for athlete, count := range small.Goals {
		assert.GreaterOrEqual(t, big.Goals[athlete], count, "goals for %s", athlete)
	}
	for athlete, count := range small.FirstAssists {
		assert.GreaterOrEqual(t, big.FirstAssists[athlete], count, "first assists for %s", athlete)
	}
	for athlete, count := range small.SecondAssists {
		assert.GreaterOrEqual(t, big.SecondAssists[athlete], count, "second assists for %s", athlete)
	}
}

func TestAggregateToleratesMissingFields(t *testing.T) {
	plays := []models.ScoringPlay{
		{EventID: "e1", ScorerID: "A"},               // no assists, no team, no time
		{EventID: "e1", Assist1ID: "B"},              // no scorer at all
		{EventID: "e1", ScorerID: "C", TeamID: "99"}, // unknown team is fine
	}

	tally := Aggregate(plays)

	assert.Equal(t, 1, tally.Goals["A"])
	assert.Equal(t, 1, tally.Goals["C"])
	assert.Equal(t, 1, tally.FirstAssists["B"])
	assert.Zero(t, tally.Goals[""])
}

func TestAggregateFeedOrdering(t *testing.T) {
	plays := []models.ScoringPlay{
		{EventID: "e1", ScorerID: "late", Period: 3, SecondsElapsed: 30},
		{EventID: "e2", ScorerID: "tie-first", Period: 1, SecondsElapsed: 120},
		{EventID: "e1", ScorerID: "tie-second", Period: 1, SecondsElapsed: 120},
		{EventID: "e2", ScorerID: "early", Period: 1, SecondsElapsed: 15},
	}

	tally := Aggregate(plays)

	require.Len(t, tally.Feed, 4)
	assert.Equal(t, "early", tally.Feed[0].ScorerID)
	// Equal time markers keep input order
	assert.Equal(t, "tie-first", tally.Feed[1].ScorerID)
	assert.Equal(t, "tie-second", tally.Feed[2].ScorerID)
	assert.Equal(t, "late", tally.Feed[3].ScorerID)
}

func TestScoreWeights(t *testing.T) {
	tally := Aggregate([]models.ScoringPlay{
		{EventID: "e1", ScorerID: "A", Assist1ID: "B", Period: 1, SecondsElapsed: 331},
	})
	w := DefaultWeights()

	tests := []struct {
		name  string
		picks []string
		want  float64
	}{
		{"scorer only", []string{"A"}, 1.0},
		{"assist only", []string{"B"}, 0.5},
		{"both", []string{"A", "B"}, 1.5},
		{"unknown athlete", []string{"Z"}, 0},
		{"empty picks", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.picks, tally, w), 1e-9)
		})
	}
}
