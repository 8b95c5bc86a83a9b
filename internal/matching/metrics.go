package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_requests_total",
			Help: "Total number of match requests by outcome",
		},
		[]string{"status"},
	)

	scoringFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_scoring_fallback_total",
			Help: "Assisted scoring calls that fell back to the deterministic path",
		},
	)

	compatibilityScores = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores by scoring method",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"method"},
	)

	matchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_request_duration_seconds",
			Help:    "End-to-end duration of a ranking request",
			Buckets: prometheus.DefBuckets,
		},
	)

	eligibleCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_eligible_candidates",
			Help:    "Eligible candidate pool size per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	connectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_connections_total",
			Help: "Connections recorded through the ledger by type",
		},
		[]string{"type"},
	)
)

func recordRequest(status string) {
	matchRequestsTotal.WithLabelValues(status).Inc()
}

func recordFallback() {
	scoringFallbackTotal.Inc()
}

func observeScore(score float64, method string) {
	compatibilityScores.WithLabelValues(method).Observe(score)
}

func observeMatchRequest(duration time.Duration, eligible int) {
	matchDuration.Observe(duration.Seconds())
	eligibleCandidates.Observe(float64(eligible))
}

func recordConnection(connType string) {
	connectionsTotal.WithLabelValues(connType).Inc()
}
