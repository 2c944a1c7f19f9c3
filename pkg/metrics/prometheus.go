package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var defaultRatingBuckets = []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

var defaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500}

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	ratingBuckets  []float64
	latencyBuckets []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Show pipeline
	showsSimulated  prometheus.Counter
	segments        *prometheus.CounterVec
	showRating      prometheus.Histogram
	segmentRating   *prometheus.HistogramVec
	blowoffs        prometheus.Counter
	validationCodes *prometheus.CounterVec

	// Session state
	activeRivalries prometheus.Gauge
	activeCooldowns prometheus.Gauge
	showIndex       prometheus.Gauge

	// Persistence
	persistence *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

// customRegistry keeps Go runtime collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "wrestlegm",
		subsystem:      "booking",
		ratingBuckets:  defaultRatingBuckets,
		latencyBuckets: defaultLatencyBuckets,
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.showsSimulated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "shows_simulated_total",
		Help:        "Total number of shows run to completion",
		ConstLabels: m.constLabels,
	})

	m.segments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "segments_simulated_total",
		Help:        "Total number of simulated segments by kind (match or promo)",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.showRating = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "show_rating_stars",
		Help:        "Aggregate star rating of completed shows",
		Buckets:     m.ratingBuckets,
		ConstLabels: m.constLabels,
	})

	m.segmentRating = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "segment_rating_stars",
		Help:        "Star rating of individual segments by kind",
		Buckets:     m.ratingBuckets,
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.blowoffs = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rivalry_blowoffs_total",
		Help:        "Total number of rivalries that reached a blowoff",
		ConstLabels: m.constLabels,
	})

	m.validationCodes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_findings_total",
		Help:        "Total number of booking validation findings by code",
		ConstLabels: m.constLabels,
	}, []string{"code"})

	m.activeRivalries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_rivalries",
		Help:        "Current number of pairs with a rivalry",
		ConstLabels: m.constLabels,
	})

	m.activeCooldowns = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_cooldowns",
		Help:        "Current number of pairs in post-blowoff cooldown",
		ConstLabels: m.constLabels,
	})

	m.showIndex = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "show_index",
		Help:        "Index of the next show to run",
		ConstLabels: m.constLabels,
	})

	m.persistence = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "save_operations_total",
		Help:        "Total number of save slot operations by operation and outcome",
		ConstLabels: m.constLabels,
	}, []string{"operation", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordShow records a completed show and its segment counts.
func RecordShow(rating float64, matches, promos int) {
	globalManager.showsSimulated.Inc()
	globalManager.showRating.Observe(rating)
	globalManager.segments.WithLabelValues("match").Add(float64(matches))
	globalManager.segments.WithLabelValues("promo").Add(float64(promos))
}

// RecordSegmentRating records the star rating of one segment.
func RecordSegmentRating(kind string, stars float64) {
	globalManager.segmentRating.WithLabelValues(kind).Observe(stars)
}

// RecordBlowoffs adds n blowoffs.
func RecordBlowoffs(n int) {
	if n > 0 {
		globalManager.blowoffs.Add(float64(n))
	}
}

// RecordValidationFinding counts one validation code.
func RecordValidationFinding(code string) {
	globalManager.validationCodes.WithLabelValues(code).Inc()
}

// UpdateRivalryCounts sets the rivalry and cooldown gauges.
func UpdateRivalryCounts(rivalries, cooldowns int) {
	globalManager.activeRivalries.Set(float64(rivalries))
	globalManager.activeCooldowns.Set(float64(cooldowns))
}

// UpdateShowIndex sets the show index gauge.
func UpdateShowIndex(index int) {
	globalManager.showIndex.Set(float64(index))
}

// RecordPersistence counts a save slot operation (save, load, clear).
func RecordPersistence(operation, outcome string) {
	globalManager.persistence.WithLabelValues(operation, outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
