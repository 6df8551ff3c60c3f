package statsfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/puckpool/livesync/go/clients"
	"github.com/puckpool/livesync/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Client fetches schedule and play-by-play data from the upstream stats feed.
// It keeps no state between calls; every method is a plain outbound fetch.
type Client struct {
	*clients.BaseClient
}

func New() *Client {
	return NewWithBaseURL(BaseURL)
}

// NewWithBaseURL exists so tests can point the client at a local server.
func NewWithBaseURL(baseURL string) *Client {
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(JsonHeader, JsonContentType)

	return client
}

// ResolveEventIDs returns the IDs of all events scheduled on the given date
// (YYYY-MM-DD). An empty result is a legitimate off-day, not an error.
func (c *Client) ResolveEventIDs(ctx context.Context, date string) ([]string, error) {
	body, err := c.Get(ctx, fmt.Sprintf(schedulePathFmt, date))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", date, err)
	}

	ids, err := parseScheduleEventIDs(body, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule for %s: %w", date, err)
	}

	log.Debug().Str("date", date).Int("events", len(ids)).Msg("resolved scheduled events")
	return ids, nil
}

// FetchPlayByPlay returns the scoring plays of one event, ordered by period
// and time. Retry/backoff is handled by the embedded client; an error here
// means attempts are exhausted and the caller should drop this event from the
// current tick.
func (c *Client) FetchPlayByPlay(ctx context.Context, eventID string) ([]models.ScoringPlay, error) {
	start := time.Now()

	body, err := c.Get(ctx, fmt.Sprintf(playByPlayPathFmt, eventID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch play-by-play for event %s: %w", eventID, err)
	}

	plays, err := parseScoringPlays(body, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse play-by-play for event %s: %w", eventID, err)
	}

	log.Debug().
		Str("event_id", eventID).
		Int("scoring_plays", len(plays)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched play-by-play")

	return plays, nil
}
