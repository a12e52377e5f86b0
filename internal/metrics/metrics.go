package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happythoughts_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "happythoughts_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happythoughts_signups_total",
			Help: "Sign-up attempts by outcome",
		},
		[]string{"outcome"},
	)

	SigninsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happythoughts_signins_total",
			Help: "Sign-in attempts by outcome",
		},
		[]string{"outcome"},
	)

	TokenValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happythoughts_token_validations_total",
			Help: "Access token checks by outcome",
		},
		[]string{"outcome"},
	)

	ThoughtsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "happythoughts_thoughts_created_total",
			Help: "Total number of thoughts posted",
		},
	)

	HeartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "happythoughts_hearts_total",
			Help: "Total number of successful likes",
		},
	)
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)
