package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackmatch_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// TokenVerifications records bearer token verifications by result (success|failure).
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackmatch_token_verifications_total",
			Help: "Total number of bearer token verifications",
		},
		[]string{"result"},
	)

	// MembershipGrants counts memberships created by source (create|invitation|join_request).
	MembershipGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hackmatch_membership_grants_total",
			Help: "Total number of team memberships granted",
		},
		[]string{"source"},
	)
)
