package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Summarization Prometheus metrics.
var (
	SummarizationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarization_requests_total",
			Help:      "Total number of chat completion requests made for summaries",
		},
		[]string{"model", "status"},
	)

	SummarizationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summarization_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	SummarizationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarization_tokens_total",
			Help:      "Total tokens consumed by summarization",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	SummarizationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summarization_errors_total",
			Help:      "Total summarization errors",
		},
		[]string{"model", "error_type"},
	)

	SummariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summaries produced, by outcome",
		},
		[]string{"status"}, // "ok" / "skipped" / "failed"
	)
)

var registerSummarizationOnce sync.Once

// RegisterSummarizationMetrics registers summarization metrics with the default registry.
func RegisterSummarizationMetrics() {
	registerSummarizationOnce.Do(func() {
		prometheus.MustRegister(
			SummarizationRequestsTotal,
			SummarizationRequestDuration,
			SummarizationTokensTotal,
			SummarizationErrorsTotal,
			SummariesTotal,
		)
	})
}
