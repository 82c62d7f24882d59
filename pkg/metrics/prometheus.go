// Package metrics provides Prometheus metrics for the lightshow engine.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the lightshow engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dispatch
	eventsDispatched *prometheus.CounterVec
	eventsIgnored    *prometheus.CounterVec
	eventsDuplicate  prometheus.Counter
	effectsApplied   *prometheus.CounterVec
	invalidTargets   *prometheus.CounterVec
	resolveLatency   prometheus.Histogram

	// Overrides
	gradientsStarted   prometheus.Counter
	gradientsCompleted prometheus.Counter
	gradientsCancelled prometheus.Counter
	gradientsActive    prometheus.Gauge
	legacyColorsSet    prometheus.Counter

	// Modifiers
	boostActive prometheus.Gauge
	soloActive  prometheus.Gauge

	// Player
	currentBeat     prometheus.Gauge
	timelinePending prometheus.Gauge
	frameLatency    prometheus.Histogram

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Sinks
	sinkWrites *prometheus.CounterVec
	sinkErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lightshow",
		subsystem:        "engine",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // metric catalogue
	auto := promauto.With(m.registry)

	m.eventsDispatched = auto.NewCounterVec(m.counterOpts("events_dispatched_total", "Events dispatched by event type"), []string{"type"})
	m.eventsIgnored = auto.NewCounterVec(m.counterOpts("events_ignored_total", "Events dropped before reaching a handler"), []string{"reason"})
	m.eventsDuplicate = auto.NewCounter(m.counterOpts("events_duplicate_total", "Live events rejected as duplicates"))
	m.effectsApplied = auto.NewCounterVec(m.counterOpts("effects_applied_total", "Light effects applied by kind"), []string{"effect"})
	m.invalidTargets = auto.NewCounterVec(m.counterOpts("invalid_targets_total", "Events whose light or prop id did not resolve"), []string{"kind"})
	m.resolveLatency = auto.NewHistogram(m.histogramOpts("resolve_latency_microseconds", "Time spent resolving a lighting event in microseconds", m.histogramBuckets))

	m.gradientsStarted = auto.NewCounter(m.counterOpts("gradients_started_total", "Gradient overrides started"))
	m.gradientsCompleted = auto.NewCounter(m.counterOpts("gradients_completed_total", "Gradient overrides that reached their end color"))
	m.gradientsCancelled = auto.NewCounter(m.counterOpts("gradients_cancelled_total", "Gradient overrides cancelled before completion"))
	m.gradientsActive = auto.NewGauge(m.gaugeOpts("gradients_active", "Gradients currently running"))
	m.legacyColorsSet = auto.NewCounter(m.counterOpts("legacy_colors_total", "Packed legacy colors stored as overrides"))

	m.boostActive = auto.NewGauge(m.gaugeOpts("boost_active", "1 while the boost palette is active"))
	m.soloActive = auto.NewGauge(m.gaugeOpts("solo_active", "1 while a solo filter is active"))

	m.currentBeat = auto.NewGauge(m.gaugeOpts("current_beat", "Beat position of the playback clock"))
	m.timelinePending = auto.NewGauge(m.gaugeOpts("timeline_pending", "Events scheduled but not yet due"))
	m.frameLatency = auto.NewHistogram(m.histogramOpts("frame_latency_milliseconds", "Time spent in one player frame",
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25}))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the event queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Events enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Events dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Enqueue failures"))

	m.sinkWrites = auto.NewCounterVec(m.counterOpts("sink_writes_total", "Light state writes by sink"), []string{"sink"})
	m.sinkErrors = auto.NewCounterVec(m.counterOpts("sink_errors_total", "Light state write failures by sink"), []string{"sink"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordEventDispatched counts an event entering the dispatcher.
func RecordEventDispatched(eventType int) {
	globalManager.eventsDispatched.WithLabelValues(strconv.Itoa(eventType)).Inc()
}

// RecordEventIgnored counts an event that had nowhere to go.
func RecordEventIgnored(reason string) {
	globalManager.eventsIgnored.WithLabelValues(reason).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordEffect counts an applied effect (off, on, flash, fade).
func RecordEffect(effect string) {
	globalManager.effectsApplied.WithLabelValues(effect).Inc()
}

// RecordInvalidTarget counts an unresolved light or prop id.
func RecordInvalidTarget(kind string) {
	globalManager.invalidTargets.WithLabelValues(kind).Inc()
}

// RecordResolveLatency records value resolution time in microseconds.
func RecordResolveLatency(us float64) {
	globalManager.resolveLatency.Observe(us)
}

func RecordGradientStarted()   { globalManager.gradientsStarted.Inc() }
func RecordGradientCompleted() { globalManager.gradientsCompleted.Inc() }
func RecordGradientCancelled() { globalManager.gradientsCancelled.Inc() }
func RecordLegacyColor()       { globalManager.legacyColorsSet.Inc() }

// UpdateGradientsActive sets the number of running gradients.
func UpdateGradientsActive(n int) {
	globalManager.gradientsActive.Set(float64(n))
}

// UpdateBoostActive mirrors the boost flag.
func UpdateBoostActive(active bool) {
	globalManager.boostActive.Set(boolToFloat(active))
}

// UpdateSoloActive mirrors the solo flag.
func UpdateSoloActive(active bool) {
	globalManager.soloActive.Set(boolToFloat(active))
}

// UpdateCurrentBeat sets the playback position.
func UpdateCurrentBeat(beat float64) {
	globalManager.currentBeat.Set(beat)
}

// UpdateTimelinePending sets the number of scheduled events.
func UpdateTimelinePending(n int) {
	globalManager.timelinePending.Set(float64(n))
}

// RecordFrameLatency records the duration of one player frame.
func RecordFrameLatency(ms float64) {
	globalManager.frameLatency.Observe(ms)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordSinkWrite counts a successful write to an output sink.
func RecordSinkWrite(sink string) {
	globalManager.sinkWrites.WithLabelValues(sink).Inc()
}

// RecordSinkError counts a failed write to an output sink.
func RecordSinkError(sink string) {
	globalManager.sinkErrors.WithLabelValues(sink).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
