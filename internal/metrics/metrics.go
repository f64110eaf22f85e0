package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for AnalysesTotal.
const (
	OutcomeSuccess       = "success"
	OutcomeEmptyInput    = "empty_input"
	OutcomeNotConfigured = "not_configured"
	OutcomeIncomplete    = "incomplete"
	OutcomeError         = "error"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_analyses_total",
			Help: "Total number of meal analyses by outcome",
		},
		[]string{"outcome"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meal_ai_call_duration_seconds",
			Help:    "Duration of generate-content calls to the AI service",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"model", "status"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)
