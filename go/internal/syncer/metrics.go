package syncer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "livesync",
		Name:      "ticks_total",
		Help:      "Sync ticks by outcome.",
	}, []string{"outcome"})

	fetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livesync",
		Name:      "fetch_failures_total",
		Help:      "Play-by-play fetches that failed after exhausting retries.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "livesync",
		Name:      "tick_duration_seconds",
		Help:      "Wall time of one sync tick.",
		Buckets:   prometheus.DefBuckets,
	})
)

func observeTick(outcome Outcome, elapsed time.Duration) {
	ticksTotal.WithLabelValues(string(outcome)).Inc()
	tickDuration.Observe(elapsed.Seconds())
}
