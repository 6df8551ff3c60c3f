package statsfeed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/puckpool/livesync/go/internal/models"
)

// The feed's response shapes drift between API versions, so extraction walks
// the decoded JSON and accepts every field spelling we have seen in the wild.
// Only the fields the engine needs are pulled out; everything else is ignored.

// parseScheduleEventIDs extracts event IDs from a schedule response. Supported
// shapes: {"gameWeek":[{"date":..., "games":[{"id":...}]}]}, {"games":[...]},
// and {"events":[...]}.
func parseScheduleEventIDs(body []byte, date string) ([]string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}

	var ids []string

	if week, ok := doc["gameWeek"].([]interface{}); ok {
		for _, dayRaw := range week {
			day, ok := dayRaw.(map[string]interface{})
			if !ok {
				continue
			}
			// The week payload spans several days; keep only the requested one.
			if d := asString(day["date"]); d != "" && d != date {
				continue
			}
			ids = append(ids, collectIDs(day["games"])...)
		}
		return ids, nil
	}

	if games, ok := doc["games"]; ok {
		return collectIDs(games), nil
	}

	return collectIDs(doc["events"]), nil
}

// parseScoringPlays extracts goal plays from a play-by-play response. Non-goal
// plays and plays with no identifiable scorer are skipped; missing assists and
// team references are fine.
func parseScoringPlays(body []byte, eventID string) ([]models.ScoringPlay, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding play-by-play: %w", err)
	}

	rawPlays, ok := doc["plays"].([]interface{})
	if !ok {
		// Older payloads nest plays under "allPlays".
		rawPlays, _ = doc["allPlays"].([]interface{})
	}

	var plays []models.ScoringPlay

	for _, playRaw := range rawPlays {
		play, ok := playRaw.(map[string]interface{})
		if !ok {
			continue
		}

		if !isGoal(play) {
			continue
		}

		details, _ := play["details"].(map[string]interface{})
		if details == nil {
			details = play
		}

		scorer := firstID(details, "scoringPlayerId", "scorerId", "scorer_id")
		if scorer == "" {
			continue
		}

		plays = append(plays, models.ScoringPlay{
			EventID:        eventID,
			TeamID:         firstID(details, "eventOwnerTeamId", "teamId", "team_id"),
			ScorerID:       scorer,
			Assist1ID:      firstID(details, "assist1PlayerId", "primaryAssistId", "assist1_id"),
			Assist2ID:      firstID(details, "assist2PlayerId", "secondaryAssistId", "assist2_id"),
			Period:         periodOf(play),
			SecondsElapsed: secondsElapsedOf(play),
		})
	}

	return plays, nil
}

func isGoal(play map[string]interface{}) bool {
	for _, key := range []string{"typeDescKey", "type", "eventType"} {
		if t := asString(play[key]); t != "" {
			return strings.EqualFold(t, "goal")
		}
	}
	return false
}

func periodOf(play map[string]interface{}) int {
	if pd, ok := play["periodDescriptor"].(map[string]interface{}); ok {
		if n := asInt(pd["number"]); n > 0 {
			return n
		}
	}
	return asInt(play["period"])
}

func secondsElapsedOf(play map[string]interface{}) int {
	for _, key := range []string{"timeInPeriod", "timeElapsed", "clock"} {
		if s := asString(play[key]); s != "" {
			return clockToSeconds(s)
		}
	}
	return asInt(play["secondsElapsed"])
}

// clockToSeconds converts a "MM:SS" marker to seconds; malformed values
// order as zero rather than failing the play.
func clockToSeconds(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	seconds, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0
	}
	return minutes*60 + seconds
}

func collectIDs(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var ids []string
	for _, itemRaw := range items {
		item, ok := itemRaw.(map[string]interface{})
		if !ok {
			continue
		}
		if id := firstID(item, "id", "gamePk", "eventId"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// firstID returns the first present key as a string ID, accepting both string
// and numeric JSON values.
func firstID(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}
