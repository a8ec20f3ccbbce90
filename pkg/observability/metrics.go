// Package observability provides Prometheus metrics for provider calls.
// The dispatcher records one observation per call; applications expose
// the default registry however they already do.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference
// latencies, ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ProviderRequestsTotal counts calls by service, model, and outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unillm_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"service", "model", "status"},
	)

	// ProviderLatency records call latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unillm_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"service", "model"},
	)

	// ProviderTokensTotal counts tokens by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unillm_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"service", "model", "direction"},
	)

	// StreamsActive tracks in-flight streaming responses.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "unillm_streams_active",
			Help: "Active streaming responses",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		StreamsActive,
	)
}

// RecordCall observes one finished call.
func RecordCall(service, model, status string, start time.Time) {
	ProviderRequestsTotal.WithLabelValues(service, model, status).Inc()
	ProviderLatency.WithLabelValues(service, model).Observe(time.Since(start).Seconds())
}

// RecordTokens adds a call's token counts.
func RecordTokens(service, model string, input, output int) {
	if input > 0 {
		ProviderTokensTotal.WithLabelValues(service, model, "input").Add(float64(input))
	}
	if output > 0 {
		ProviderTokensTotal.WithLabelValues(service, model, "output").Add(float64(output))
	}
}
