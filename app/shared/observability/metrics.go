package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records service operation and batch outcomes.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
	RecordBatchItem(ctx context.Context, batch, outcome string)
}

type promMetrics struct {
	attempts *prometheus.CounterVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	batch    *prometheus.CounterVec
}

// NewOperationMetrics registers the operation collectors for one module under
// namespace (e.g. "league") on reg.
func NewOperationMetrics(reg prometheus.Registerer, namespace string) OperationMetrics {
	labels := []string{"operation", "service"}
	m := &promMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		success: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that completed without an infrastructure error.",
		}, labels),
		failure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failure_total",
			Help:      "Service operations that returned an error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		batch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Items processed by batch sweeps, by outcome.",
		}, []string{"batch", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.success, m.failure, m.duration, m.batch)
	}
	return m
}

func (m *promMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.success.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failure.WithLabelValues(operation, service).Inc()
}

func (m *promMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *promMetrics) RecordBatchItem(_ context.Context, batch, outcome string) {
	m.batch.WithLabelValues(batch, outcome).Inc()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoopMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoopMetrics) RecordBatchItem(context.Context, string, string) {}
