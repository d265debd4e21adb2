// Package observability is C12: structured logging is internal/logging;
// this package is the metrics half, grounded on the teacher's
// internal/rotation/health.RotationMetrics lazy-registration idiom,
// re-keyed from rotation/health-check counters onto KMS calls,
// backend-store calls, rollback invocations, and RPC latency per
// operation (§4.12).
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	kmsCallsTotal         *prometheus.CounterVec
	kmsCallDuration       *prometheus.HistogramVec
	backendStoreCallsTotal   *prometheus.CounterVec
	backendStoreCallDuration *prometheus.HistogramVec
	rollbackTotal         *prometheus.CounterVec
	rpcDuration           *prometheus.HistogramVec

	metricsOnce       sync.Once
	metricsRegistered bool
)

// InitMetrics registers the process's Prometheus collectors. Safe to call
// more than once; only the first call registers anything.
func InitMetrics() {
	metricsOnce.Do(func() {
		kmsCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretcore_kms_calls_total",
				Help: "Total number of KMS adapter calls",
			},
			[]string{"operation", "encrypt_type", "status"},
		)

		kmsCallDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secretcore_kms_call_duration_seconds",
				Help:    "Duration of KMS adapter calls in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "encrypt_type"},
		)

		backendStoreCallsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretcore_backend_store_calls_total",
				Help: "Total number of backend-store adapter calls",
			},
			[]string{"operation", "backend", "status"},
		)

		backendStoreCallDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secretcore_backend_store_call_duration_seconds",
				Help:    "Duration of backend-store adapter calls in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "backend"},
		)

		rollbackTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "secretcore_rollback_total",
				Help: "Total number of lifecycle rollback (unwind) invocations",
			},
			[]string{"step", "status"},
		)

		rpcDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "secretcore_rpc_duration_seconds",
				Help:    "Duration of RPC Surface calls in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"service", "method", "code"},
		)

		metricsRegistered = true
	})
}

// Metrics records observations against the collectors InitMetrics
// registers. It is a thin recording facade so callers (C1/C2/C7/C10) don't
// reach for package-level vars directly.
type Metrics struct{}

func New() *Metrics { return &Metrics{} }

func (m *Metrics) RecordKMSCall(operation, encryptType, status string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}
	kmsCallsTotal.WithLabelValues(operation, encryptType, status).Inc()
	kmsCallDuration.WithLabelValues(operation, encryptType).Observe(durationSeconds)
}

func (m *Metrics) RecordBackendStoreCall(operation, backend, status string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}
	backendStoreCallsTotal.WithLabelValues(operation, backend, status).Inc()
	backendStoreCallDuration.WithLabelValues(operation, backend).Observe(durationSeconds)
}

func (m *Metrics) RecordRollback(step, status string) {
	if !metricsRegistered {
		return
	}
	rollbackTotal.WithLabelValues(step, status).Inc()
}

func (m *Metrics) RecordRPC(service, method, code string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}
	rpcDuration.WithLabelValues(service, method, code).Observe(durationSeconds)
}

// IsRegistered reports whether InitMetrics has run, for tests that need to
// assert collectors exist before exercising recording paths.
func IsRegistered() bool { return metricsRegistered }
