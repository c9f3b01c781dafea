package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Recomputations    *prometheus.CounterVec   // labels: output={map,series}
	EmptyResults      *prometheus.CounterVec   // labels: output={map,series}
	RecomputeDuration *prometheus.HistogramVec // labels: output={map,series}
	ControlChanges    *prometheus.CounterVec   // labels: control
	RenderCacheHits   *prometheus.CounterVec   // labels: output={map,series}
	SessionsActive    prometheus.Gauge

	// Load-time metrics.
	LoadRetries       *prometheus.CounterVec // labels: stage={records,boundaries}
	RowsLoaded        prometheus.Gauge
	GeoFeaturesLoaded prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Recomputations,
		m.EmptyResults,
		m.RecomputeDuration,
		m.ControlChanges,
		m.RenderCacheHits,
		m.SessionsActive,
		m.LoadRetries,
		m.RowsLoaded,
		m.GeoFeaturesLoaded,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_dashboard",
			Name:      "recomputations_total",
			Help:      "Chart outputs recomputed, by output panel.",
		}, []string{"output"}),
		EmptyResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_dashboard",
			Name:      "empty_results_total",
			Help:      "Recomputations that matched no rows and rendered a placeholder.",
		}, []string{"output"}),
		RecomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crash_dashboard",
			Name:      "recompute_duration_seconds",
			Help:      "Time to filter, aggregate, and build one chart output.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"output"}),
		ControlChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_dashboard",
			Name:      "control_changes_total",
			Help:      "Control changes received from reactive sessions.",
		}, []string{"control"}),
		RenderCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_dashboard",
			Name:      "render_cache_hits_total",
			Help:      "Panels served from the rendered-panel cache instead of recomputed.",
		}, []string{"output"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_dashboard",
			Name:      "sessions_active",
			Help:      "Open reactive dashboard sessions.",
		}),
		LoadRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_dashboard",
			Name:      "load_retries_total",
			Help:      "Failed startup reads that were retried, by stage.",
		}, []string{"stage"}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_dashboard",
			Name:      "rows_loaded",
			Help:      "Crash records held in the row store.",
		}),
		GeoFeaturesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_dashboard",
			Name:      "geo_features_loaded",
			Help:      "Neighborhood features held in the backdrop store.",
		}),
	}
}
