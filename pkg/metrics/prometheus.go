// Package metrics provides Prometheus metrics for the railpulse service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons recorded by RecordRowsDropped.
const (
	DropNoYear        = "no_year"
	DropExcluded      = "excluded"
	DropEmptyOperator = "empty_operator"
)

// Selection outcomes recorded by RecordSelection.
const (
	OutcomeApplied    = "applied"
	OutcomeNoData     = "no_data"
	OutcomeInvalid    = "invalid"
	OutcomeSuperseded = "superseded"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion
	rowsLoaded       prometheus.Counter
	rowsDropped      *prometheus.CounterVec
	rowsKept         prometheus.Gauge
	aggregatedPoints *prometheus.GaugeVec
	operators        *prometheus.GaugeVec

	// Selection
	selections       *prometheus.CounterVec
	recomputeLatency prometheus.Histogram
	currentMetric    *prometheus.GaugeVec

	// Aggregation pipeline
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	aggregationLatency *prometheus.HistogramVec
	workerErrors       prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // private registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors are registered on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "railpulse",
		subsystem:        "punctuality",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_loaded_total",
		Help:      "Raw rows handed to the normalizer",
	})
	m.rowsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_dropped_total",
		Help:      "Rows removed before aggregation, by reason",
	}, []string{"reason"})
	m.rowsKept = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_kept",
		Help:      "Normalized rows that survived operator filtering in the last load",
	})
	m.aggregatedPoints = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregated_points",
		Help:      "Number of (operator, year) points per metric",
	}, []string{"metric"})
	m.operators = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "operators",
		Help:      "Number of distinct operators per metric",
	}, []string{"metric"})

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "selection_events_total",
		Help:      "Selection events by metric and outcome",
	}, []string{"metric", "outcome"})
	m.recomputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_latency_milliseconds",
		Help:      "Time spent summarizing and assembling a view model",
		Buckets:   m.histogramBuckets,
	})
	m.currentMetric = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "current_metric",
		Help:      "1 for the currently selected metric, 0 otherwise",
	}, []string{"metric"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_queue_size",
		Help:      "Aggregation jobs waiting for a worker",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_queue_capacity",
		Help:      "Maximum number of queued aggregation jobs",
	})
	m.aggregationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_latency_milliseconds",
		Help:      "Time spent aggregating one metric",
		Buckets:   m.histogramBuckets,
	}, []string{"metric"})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Aggregation jobs that failed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Ingestion.

// RecordRowsLoaded adds n raw rows to the loaded counter.
func RecordRowsLoaded(n int) {
	globalManager.rowsLoaded.Add(float64(n))
}

// RecordRowsDropped adds n dropped rows for reason.
func RecordRowsDropped(reason string, n int) {
	globalManager.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

// UpdateRowsKept sets the number of rows that reached aggregation.
func UpdateRowsKept(n int) {
	globalManager.rowsKept.Set(float64(n))
}

// UpdateAggregatedPoints sets the point count of a metric table.
func UpdateAggregatedPoints(metric string, n int) {
	globalManager.aggregatedPoints.WithLabelValues(metric).Set(float64(n))
}

// UpdateOperators sets the operator count of a metric table.
func UpdateOperators(metric string, n int) {
	globalManager.operators.WithLabelValues(metric).Set(float64(n))
}

// Selection.

// RecordSelection counts a selection event.
func RecordSelection(metric, outcome string) {
	globalManager.selections.WithLabelValues(metric, outcome).Inc()
}

// RecordRecomputeLatency observes one recompute.
func RecordRecomputeLatency(latencyMs float64) {
	globalManager.recomputeLatency.Observe(latencyMs)
}

// UpdateCurrentMetric marks current as selected among all.
func UpdateCurrentMetric(current string, all []string) {
	for _, m := range all {
		v := 0.0
		if m == current {
			v = 1
		}
		globalManager.currentMetric.WithLabelValues(m).Set(v)
	}
}

// Aggregation pipeline.

// UpdateQueueSize sets the number of queued aggregation jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the aggregation queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordAggregationLatency observes the aggregation time of one metric.
func RecordAggregationLatency(metric string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(metric).Observe(latencyMs)
}

// RecordWorkerError counts a failed aggregation job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the heap allocation in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the private registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
