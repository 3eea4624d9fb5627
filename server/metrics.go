package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	contractx "bankbot/bot/contract"
)

var (
	turnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankbot_turns_total",
			Help: "Chat turns handled, labeled by reply kind.",
		},
		[]string{"kind"},
	)

	turnFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bankbot_turn_failures_total",
			Help: "Chat turns aborted by a collaborator failure.",
		},
	)

	turnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bankbot_turn_duration_seconds",
			Help:    "End to end latency of one chat turn.",
			Buckets: prometheus.DefBuckets,
		},
	)

	fallbackAnswersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bankbot_fallback_answers_total",
			Help: "Deferred turns answered by the fallback responder.",
		},
	)
)

func observeTurn(kind contractx.ReplyKind, elapsed time.Duration) {
	turnsTotal.WithLabelValues(string(kind)).Inc()
	turnDuration.Observe(elapsed.Seconds())
}
