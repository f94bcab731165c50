// Package metrics records reconciliation activity in a Prometheus registry
// that can be exported in node-exporter textfile format.
//
// Every method is safe on a nil *Metrics so callers never need to guard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reconciliation outcomes used as the "result" label.
const (
	ResultNoop    = "noop"
	ResultChanged = "changed"
	ResultTimeout = "timeout"
	ResultError   = "error"
)

// Metrics holds the collectors for one gfctl run.
type Metrics struct {
	registry *prometheus.Registry

	// Attempts counts corrective actions issued.
	// Labels: goal, condition
	Attempts *prometheus.CounterVec

	// Reconciliations counts finished reconciliations.
	// Labels: condition, result (noop|changed|timeout|error)
	Reconciliations *prometheus.CounterVec

	// Duration measures how long a reconciliation took in seconds.
	// Labels: condition
	Duration *prometheus.HistogramVec

	// Tasks counts playbook task outcomes.
	// Labels: type (domain|deployment), status
	Tasks *prometheus.CounterVec
}

// New creates a Metrics instance backed by a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gfctl",
			Name:      "reconcile_attempts_total",
			Help:      "Corrective actions issued by the reconciler.",
		}, []string{"goal", "condition"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gfctl",
			Name:      "reconciliations_total",
			Help:      "Finished reconciliations by outcome.",
		}, []string{"condition", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gfctl",
			Name:      "reconcile_duration_seconds",
			Help:      "Wall time spent reconciling a single goal.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"condition"}),
		Tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gfctl",
			Name:      "tasks_total",
			Help:      "Playbook tasks by type and final status.",
		}, []string{"type", "status"}),
	}

	m.registry.MustRegister(m.Attempts, m.Reconciliations, m.Duration, m.Tasks)
	return m
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// ObserveAttempt records one corrective action.
func (m *Metrics) ObserveAttempt(goal, condition string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(goal, condition).Inc()
}

// ObserveReconciliation records the outcome and duration of a reconciliation.
func (m *Metrics) ObserveReconciliation(condition, result string, seconds float64) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(condition, result).Inc()
	m.Duration.WithLabelValues(condition).Observe(seconds)
}

// ObserveTask records a finished playbook task.
func (m *Metrics) ObserveTask(taskType, status string) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues(taskType, status).Inc()
}

// WriteTextfile writes the registry to path in the Prometheus text format,
// atomically replacing any previous file.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
