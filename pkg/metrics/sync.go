package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records mutation outcomes and remote operation latency.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_remote_op_duration_seconds",
		Help:    "Duration of remote row-store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine", "op"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_op_success",
		Help: "Successful sync operations.",
	}, []string{"engine", "op"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_op_failure",
		Help: "Failed sync operations.",
	}, []string{"engine", "op"})
	reg.MustRegister(duration, success, failure)
	return &SyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named remote operation.
func (s *SyncMetrics) ObserveDuration(engine, op string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(engine), normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (s *SyncMetrics) IncSuccess(engine, op string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(engine), normalizeLabel(op)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (s *SyncMetrics) IncFailure(engine, op string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(engine), normalizeLabel(op)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
