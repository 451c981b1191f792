// Package metrics defines the Prometheus collectors taskweave exports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for taskweave.
type Metrics struct {
	// Dependency validation outcomes, labelled "accepted" or the error kind.
	DependencyValidations *prometheus.CounterVec

	CriticalPathRuns     prometheus.Counter
	CriticalPathLatency  prometheus.Histogram
	CriticalPathShared   prometheus.Counter
	ProjectDurationDays  *prometheus.GaugeVec
	StatusTransitions    *prometheus.CounterVec
	TasksImported        *prometheus.CounterVec
	InferredDependencies *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a Metrics instance registered with registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		DependencyValidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskweave_dependency_validations_total",
				Help: "Dependency change validations by result",
			},
			[]string{"result"},
		),
		CriticalPathRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskweave_critical_path_runs_total",
			Help: "Critical path computations performed",
		}),
		CriticalPathLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskweave_critical_path_seconds",
			Help:    "Critical path computation latency, including the store read",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		CriticalPathShared: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskweave_critical_path_shared_total",
			Help: "Critical path requests served by an in-flight computation",
		}),
		ProjectDurationDays: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "taskweave_project_duration_days",
				Help: "Most recently computed project duration",
			},
			[]string{"project"},
		),
		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskweave_status_transitions_total",
				Help: "Task status changes by target status",
			},
			[]string{"to"},
		),
		TasksImported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskweave_tasks_imported_total",
				Help: "Task records read by the importer",
			},
			[]string{"result"},
		),
		InferredDependencies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskweave_inferred_dependencies_total",
				Help: "Model-suggested dependency edges by outcome",
			},
			[]string{"result"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskweave_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskweave_http_request_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// NewRegistry creates a fresh registry with taskweave metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, New(reg)
}

// Handler returns the /metrics handler for reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveCriticalPath records one computation for project.
func (m *Metrics) ObserveCriticalPath(project string, duration int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CriticalPathRuns.Inc()
	m.CriticalPathLatency.Observe(elapsed.Seconds())
	m.ProjectDurationDays.WithLabelValues(project).Set(float64(duration))
}

// ObserveValidation records a dependency validation result. An empty kind
// means the change was accepted.
func (m *Metrics) ObserveValidation(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "accepted"
	}
	m.DependencyValidations.WithLabelValues(kind).Inc()
}
