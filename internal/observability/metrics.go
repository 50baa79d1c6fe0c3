package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eruption_atlas"

// Metrics holds the Prometheus counters, histograms, and gauges for the enrichment service.
type Metrics struct {
	EruptionsLoaded  prometheus.Counter
	BoundariesLoaded prometheus.Counter

	// Spatial join and continent resolution.
	JoinResults          *prometheus.CounterVec // labels: status={matched,unmatched,missing_coordinates,malformed}
	ContinentResolutions *prometheus.CounterVec // labels: outcome={resolved,fallback,unresolved}
	ContinentCache       *prometheus.CounterVec // labels: result={hit,miss}

	// Enriched table lifecycle.
	TableBuilds        prometheus.Counter
	TableCache         *prometheus.CounterVec // labels: result={hit,miss,snapshot}
	TableBuildDuration prometheus.Histogram
	TableReady         prometheus.Gauge

	// Query side.
	FilterRequests *prometheus.CounterVec // labels: endpoint
	FilterDuration prometheus.Histogram

	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EruptionsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eruptions_loaded_total",
			Help:      "Eruption records read from the source dataset.",
		}),
		BoundariesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundaries_loaded_total",
			Help:      "Country polygons read from the boundary dataset.",
		}),
		JoinResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_results_total",
			Help:      "Spatial join outcomes by status.",
		}, []string{"status"}),
		ContinentResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "continent_resolutions_total",
			Help:      "Continent resolutions by outcome.",
		}, []string{"outcome"}),
		ContinentCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "continent_cache_total",
			Help:      "Continent memo lookups by result.",
		}, []string{"result"}),
		TableBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_builds_total",
			Help:      "Enrichment runs that executed the spatial join.",
		}),
		TableCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_cache_total",
			Help:      "Enriched table cache lookups by result.",
		}, []string{"result"}),
		TableBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_build_duration_seconds",
			Help:      "Duration of one enrichment run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		TableReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_ready",
			Help:      "1 once the enriched table has been built, 0 otherwise.",
		}),
		FilterRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_requests_total",
			Help:      "Filtered view requests by endpoint.",
		}, []string{"endpoint"}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent applying a filter predicate.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Enriched rows written to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.EruptionsLoaded,
		m.BoundariesLoaded,
		m.JoinResults,
		m.ContinentResolutions,
		m.ContinentCache,
		m.TableBuilds,
		m.TableCache,
		m.TableBuildDuration,
		m.TableReady,
		m.FilterRequests,
		m.FilterDuration,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// NewUnregisteredMetrics creates Metrics that no registry exports. atlasctl
// uses it since it never serves /metrics.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		EruptionsLoaded:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "eruptions_loaded_total"}),
		BoundariesLoaded:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "boundaries_loaded_total"}),
		JoinResults:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "join_results_total"}, []string{"status"}),
		ContinentResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "continent_resolutions_total"}, []string{"outcome"}),
		ContinentCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "continent_cache_total"}, []string{"result"}),
		TableBuilds:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "table_builds_total"}),
		TableCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "table_cache_total"}, []string{"result"}),
		TableBuildDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "table_build_duration_seconds"}),
		TableReady:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "table_ready"}),
		FilterRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "filter_requests_total"}, []string{"endpoint"}),
		FilterDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "filter_duration_seconds"}),
		RecordsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "records_published_total"}),
	}
}
