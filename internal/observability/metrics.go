package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a preparation run.
type Metrics struct {
	TracesRead        *prometheus.CounterVec // labels: phase={metadata,transform}
	StationsResolved  prometheus.Counter
	StationsSkipped   *prometheus.CounterVec // labels: reason={not_found,malformed,geodesic,write,no_metadata}
	TracesTransformed *prometheus.CounterVec // labels: channel
	TransformErrors   prometheus.Counter
	PhaseDuration     *prometheus.HistogramVec // labels: phase
	PipelineRunning   prometheus.Gauge
	MetadataReady     prometheus.Gauge

	registry prometheus.Gatherer
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.registry = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.registry = reg
	return m
}

// Gatherer returns the registry the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// WriteTextfile writes the current metric values in the text exposition
// format, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func newMetrics() *Metrics {
	return &Metrics{
		TracesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_prep",
			Name:      "traces_read_total",
			Help:      "Traces read from the input directory, by phase.",
		}, []string{"phase"}),
		StationsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seismic_prep",
			Name:      "stations_resolved_total",
			Help:      "Stations that received metadata.",
		}),
		StationsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_prep",
			Name:      "stations_skipped_total",
			Help:      "Stations or traces skipped, by reason.",
		}, []string{"reason"}),
		TracesTransformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_prep",
			Name:      "traces_transformed_total",
			Help:      "Traces written to the output directory, by channel.",
		}, []string{"channel"}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seismic_prep",
			Name:      "transform_errors_total",
			Help:      "Traces that failed a transform stage or the final write.",
		}),
		PhaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "seismic_prep",
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each pipeline phase.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"phase"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seismic_prep",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		MetadataReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seismic_prep",
			Name:      "metadata_ready",
			Help:      "1 once the station metadata pass has completed.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TracesRead,
		m.StationsResolved,
		m.StationsSkipped,
		m.TracesTransformed,
		m.TransformErrors,
		m.PhaseDuration,
		m.PipelineRunning,
		m.MetadataReady,
	}
}
