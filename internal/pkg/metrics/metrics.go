package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chain_insight"

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream HTTP requests by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream HTTP request latency by source.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	EnrichmentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_outcomes_total",
			Help:      "Optional enrichment results by source and status.",
		},
		[]string{"source", "status"},
	)

	InputClassifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_classifications_total",
			Help:      "Classified transaction input payloads by kind.",
		},
		[]string{"kind"},
	)

	NetworkSwitches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "network_switches_total",
			Help:      "Successful active network switches.",
		},
	)
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			UpstreamRequests,
			UpstreamLatency,
			EnrichmentOutcomes,
			InputClassifications,
			NetworkSwitches,
		)
	})
}

// ObserveUpstream records one upstream call.
func ObserveUpstream(source, outcome string, started time.Time) {
	UpstreamRequests.WithLabelValues(source, outcome).Inc()
	UpstreamLatency.WithLabelValues(source).Observe(time.Since(started).Seconds())
}
