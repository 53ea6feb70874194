package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "propman_http_requests_total",
		Help: "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "propman_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	LateFeesChargedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propman_late_fees_charged_total",
		Help: "Number of late fees successfully charged via the billing gateway.",
	})

	LateFeeAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propman_late_fee_amount_total",
		Help: "Total late fee amount charged, in major currency units.",
	})

	ClaimConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propman_late_fee_claim_conflicts_total",
		Help: "Claims lost to a concurrent batch run and skipped.",
	})

	GatewayFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propman_late_fee_gateway_failures_total",
		Help: "Gateway charges that failed and triggered a compensating release.",
	})

	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "propman_late_fee_batch_duration_seconds",
		Help:    "Duration of ProcessLease batch runs.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
)
