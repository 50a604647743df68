package manager

import (
	"github.com/prometheus/client_golang/prometheus"

	"inferd/pkg/types"
)

var (
	inferenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "inference",
			Name:      "requests_total",
			Help:      "Total inference requests by outcome",
		},
		[]string{"outcome"},
	)

	inferenceStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "inference",
			Name:      "stops_total",
			Help:      "Terminal states of the generation loop",
		},
		[]string{"stop"},
	)

	ttftSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "inference",
			Name:      "ttft_seconds",
			Help:      "Time to first generated token",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	generatedTokens = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "inference",
			Name:      "generated_tokens_total",
			Help:      "Total generated tokens",
		},
	)

	decodeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "inferd",
			Subsystem: "inference",
			Name:      "decode_seconds",
			Help:      "Decode phase wall clock per request",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(inferenceTotal, inferenceStops, ttftSeconds, generatedTokens, decodeSeconds)
}

// observeInference records one finished (or failed) pipeline run.
func observeInference(res types.InferResult, err error) {
	outcome := string(res.Outcome)
	if err != nil {
		outcome = string(types.OutcomeEmptyFailure)
	}
	inferenceTotal.WithLabelValues(outcome).Inc()
	if res.Stop != "" {
		inferenceStops.WithLabelValues(string(res.Stop)).Inc()
	}
	if res.Metrics.TTFTMs.Valid {
		ttftSeconds.Observe(float64(res.Metrics.TTFTMs.Value) / 1000)
	}
	if res.Metrics.DecodeMs.Valid {
		decodeSeconds.Observe(float64(res.Metrics.DecodeMs.Value) / 1000)
	}
	if res.GeneratedTokens > 0 {
		generatedTokens.Add(float64(res.GeneratedTokens))
	}
}
