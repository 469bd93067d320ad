package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure|inactive).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusfound_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// TokenRedemptions counts verification and reset token redemptions by kind and outcome.
	TokenRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusfound_token_redemptions_total",
			Help: "Total number of token redemption attempts",
		},
		[]string{"kind", "result"},
	)

	// ClaimDecisions counts administrator adjudications by decision.
	ClaimDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusfound_claim_decisions_total",
			Help: "Total number of claim adjudications",
		},
		[]string{"decision"},
	)

	// NotificationsSent counts notification rows created for users.
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campusfound_notifications_sent_total",
			Help: "Total number of notifications delivered",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campusfound_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveAuthAttempt records the outcome of a login attempt.
func ObserveAuthAttempt(result string) {
	AuthAttempts.WithLabelValues(result).Inc()
}

// ObserveTokenRedemption records a token redemption attempt for the given kind.
func ObserveTokenRedemption(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	TokenRedemptions.WithLabelValues(kind, result).Inc()
}

// ObserveClaimDecision records an adjudication outcome.
func ObserveClaimDecision(decision string) {
	ClaimDecisions.WithLabelValues(decision).Inc()
}
