package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "helpdex",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each answer pipeline stage",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"stage"},
	)

	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdex",
			Name:      "answers_total",
			Help:      "Answered questions by outcome",
		},
		[]string{"outcome"}, // "ok" / "empty" / "error"
	)

	GraphQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdex",
			Name:      "graph_queries_total",
			Help:      "Procedure graph lookups by driver and status",
		},
		[]string{"driver", "status"},
	)

	IndexDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "helpdex",
			Name:      "index_documents",
			Help:      "Indexed documents per type",
		},
		[]string{"type"},
	)
)
