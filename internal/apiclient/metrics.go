package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg. A nil reg yields working
// but unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parkdash_api_requests_total",
			Help: "Backend API calls by method, route and outcome.",
		}, []string{"method", "route", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parkdash_api_request_duration_seconds",
			Help:    "Latency of backend API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
