package metrics

import "github.com/prometheus/client_golang/prometheus"

// Completion and retrieval Prometheus metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "completion_requests_total",
			Help:      "Total number of text-completion requests",
		},
		[]string{"op", "model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "deepsearch",
			Name:      "completion_request_duration_seconds",
			Help:      "Text-completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"op", "model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "completion_tokens_total",
			Help:      "Total completion tokens consumed",
		},
		[]string{"op", "model", "type"},
	)

	CompletionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "completion_errors_total",
			Help:      "Total text-completion errors",
		},
		[]string{"op", "model", "error_type"},
	)

	RetrievalChunksFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "retrieval_chunks_found_total",
			Help:      "Knowledge chunks returned per retrieval stage",
		},
		[]string{"stage"}, // "primary" / "fallback" / "default" / cross-ref key
	)

	RetrievalStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "retrieval_store_errors_total",
			Help:      "Knowledge store query failures absorbed by the degrade chain",
		},
		[]string{"stage"},
	)

	TranslationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deepsearch",
			Name:      "translation_cache_total",
			Help:      "Query translation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var coreMetricsRegistered bool

// RegisterCoreMetrics registers deepsearch Prometheus metrics. Must be called once from main.
func RegisterCoreMetrics() {
	if coreMetricsRegistered {
		return
	}
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(CompletionTokensTotal)
	prometheus.MustRegister(CompletionErrorsTotal)
	prometheus.MustRegister(RetrievalChunksFound)
	prometheus.MustRegister(RetrievalStoreErrorsTotal)
	prometheus.MustRegister(TranslationCacheTotal)
	coreMetricsRegistered = true
}
