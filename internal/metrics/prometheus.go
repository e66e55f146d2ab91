package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetrent_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "closetrent_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RentalsTotal counts rental creation attempts by outcome
	RentalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetrent_rentals_total",
			Help: "Rental order creation attempts by outcome",
		},
		[]string{"outcome"}, // created, rejected, failed
	)

	// MediaOperations counts media store calls by backend, operation and result
	MediaOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetrent_media_operations_total",
			Help: "Media store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// OverdueRentals is the number of unpaid rentals past their return date
	OverdueRentals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "closetrent_overdue_rentals",
			Help: "Unpaid rental orders past their return date at the last check",
		},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "closetrent_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit_name"},
	)
)

// Result maps an error onto the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
