package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_reservation_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flight_reservation_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	CheckoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_reservation_checkouts_total",
			Help: "Checkout session attempts by outcome",
		},
		[]string{"outcome"},
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_reservation_verifications_total",
			Help: "Payment verifications by outcome",
		},
		[]string{"outcome"},
	)

	FXFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_reservation_fx_fallbacks_total",
			Help: "Checkouts priced in the base currency because conversion failed",
		},
	)

	FXRateFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_reservation_fx_rate_fetches_total",
			Help: "Rate table fetches from the FX provider by result",
		},
		[]string{"result"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_reservation_side_effect_failures_total",
			Help: "Failed post-payment notifications by kind",
		},
		[]string{"kind"},
	)
)

// Outcome labels shared by the checkout and verification counters.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeNotPaid  = "not_paid"
	OutcomeExisting = "existing"
)
