package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Document store Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Document store operations by outcome",
		},
		[]string{"operation", "status"}, // operation: list / get / update; status: ok / not_found / error
	)

	PersistFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_persist_failures_total",
			Help:      "Summaries that were returned to the caller but could not be written back",
		},
		[]string{"mode"}, // "single" / "bulk"
	)
)

// Store operation names.
const (
	OpList   = "list"
	OpGet    = "get"
	OpUpdate = "update"
)

// Store operation statuses.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var registerStoreOnce sync.Once

// RegisterStoreMetrics registers store metrics with the default registry.
func RegisterStoreMetrics() {
	registerStoreOnce.Do(func() {
		prometheus.MustRegister(StoreOperationsTotal, PersistFailuresTotal)
	})
}
