package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "pricecheck"

// Pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of web search requests",
		},
		[]string{"provider", "status"},
	)

	FetchPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_pages_total",
			Help:      "Evidence page fetches by outcome",
		},
		[]string{"result"}, // accepted / short / error / skipped
	)

	EvidenceDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evidence_documents",
			Help:      "Evidence documents kept per request after the corpus budget",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12},
		},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Total number of text-generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Text-generation request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider", "model"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Total model tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	ModelBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_budget_tokens_remaining",
			Help:      "Tokens left in the model budget (-1 when unlimited)",
		},
		[]string{"provider", "period"}, // period: daily / monthly
	)

	CompareOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compare_outcomes_total",
			Help:      "Compare requests by envelope status",
		},
		[]string{"status"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		SearchRequestsTotal,
		FetchPagesTotal,
		EvidenceDocuments,
		ModelRequestsTotal,
		ModelRequestDuration,
		ModelTokensTotal,
		ModelBudgetTokensRemaining,
		CompareOutcomesTotal,
	)
	pipelineMetricsRegistered = true
}
