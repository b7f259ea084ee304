package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vintner",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Per-stage pipeline duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vintner",
			Name:      "searches_total",
			Help:      "Total searches by retrieval mode and outcome",
		},
		[]string{"mode", "outcome"}, // outcome: ok / empty / error
	)

	PipelineCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vintner",
			Name:      "pipeline_candidates",
			Help:      "Candidate pool size after each stage",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
		[]string{"stage"},
	)

	FallbackFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vintner",
			Name:      "fallback_fetches_total",
			Help:      "Direct catalog fetches triggered by constraint fallbacks",
		},
		[]string{"kind"}, // category / soft_tags / rule_target
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(PipelineCandidates)
	prometheus.MustRegister(FallbackFetchesTotal)
	pipelineMetricsRegistered = true
}
