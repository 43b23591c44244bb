// Package metrics maintains the prometheus collectors for the node.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notary"

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route, and response status.",
	}, []string{"method", "route", "status"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	errorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total requests that returned an error.",
	})

	panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "panics_total",
		Help:      "Total requests that panicked.",
	})

	recordsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_submitted_total",
		Help:      "Total records sealed into the chain.",
	})

	recordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_rejected_total",
		Help:      "Total record submissions rejected by reason.",
	}, []string{"reason"})

	chainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chain_height",
		Help:      "Height of the latest block in the chain.",
	})
)

// AddRequest records a completed request.
func AddRequest(method string, route string, status string, seconds float64) {
	requests.WithLabelValues(method, route, status).Inc()
	duration.WithLabelValues(method, route).Observe(seconds)
}

// AddError records a request that returned an error.
func AddError() {
	errorsTotal.Inc()
}

// AddPanic records a request that panicked.
func AddPanic() {
	panics.Inc()
}

// AddRecord records a sealed record and the new chain height.
func AddRecord(height uint64) {
	recordsSubmitted.Inc()
	chainHeight.Set(float64(height))
}

// AddRejection records a refused submission.
func AddRejection(reason string) {
	recordsRejected.WithLabelValues(reason).Inc()
}

// SetChainHeight sets the chain height gauge.
func SetChainHeight(height int64) {
	chainHeight.Set(float64(height))
}
