package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// normalization pipeline.
type Metrics struct {
	RowsFetched      *prometheus.CounterVec // labels: sheet
	RowsDropped      *prometheus.CounterVec // labels: sheet, reason={non_data,no_location}
	EventsNormalized *prometheus.CounterVec // labels: category
	SheetFetchErrors *prometheus.CounterVec // labels: sheet
	RefreshRuns      *prometheus.CounterVec // labels: outcome={success,degraded,failed}

	SheetFetchDuration *prometheus.HistogramVec // labels: sheet
	RefreshDuration    prometheus.Histogram

	LanesActive     prometheus.Gauge
	PipelineRunning prometheus.Gauge

	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsFetched,
		m.RowsDropped,
		m.EventsNormalized,
		m.SheetFetchErrors,
		m.RefreshRuns,
		m.SheetFetchDuration,
		m.RefreshDuration,
		m.LanesActive,
		m.PipelineRunning,
		m.SnapshotsPublished,
		m.PublishErrors,
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
		RowsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "rows_fetched_total",
			Help:      "Raw rows read from each source sheet.",
		}, []string{"sheet"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during assembly by sheet and reason.",
		}, []string{"sheet", "reason"}),
		EventsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "events_normalized_total",
			Help:      "Canonical events produced, by category.",
		}, []string{"category"}),
		SheetFetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "sheet_fetch_errors_total",
			Help:      "Failed sheet fetch attempts by sheet.",
		}, []string{"sheet"}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "refresh_runs_total",
			Help:      "Refresh passes by outcome.",
		}, []string{"outcome"}),
		SheetFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "patrol_etl",
			Name:      "sheet_fetch_duration_seconds",
			Help:      "Duration of a single sheet CSV fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"sheet"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "patrol_etl",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-store pass.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LanesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "patrol_etl",
			Name:      "lanes_active",
			Help:      "Special lanes currently believed open.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "patrol_etl",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "snapshots_published_total",
			Help:      "Snapshots successfully published to the Kafka sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "patrol_etl",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
	}
}
