package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics groups the service counters. All collectors live in their own
// registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	GeneratedItems   *prometheus.CounterVec
	GenerateDuration *prometheus.HistogramVec
	CSVExports       *prometheus.CounterVec
	CSVRows          prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GeneratedItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_generated_items_total",
				Help: "Business records processed by the content generator",
			},
			[]string{"type", "status"},
		),
		GenerateDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "outreach_generate_duration_seconds",
				Help:    "Duration of a single generation call",
				Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"type"},
		),
		CSVExports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_csv_exports_total",
				Help: "CSV export requests by outcome",
			},
			[]string{"status"},
		),
		CSVRows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_csv_rows_total",
				Help: "Data rows written to CSV exports",
			},
		),
	}
}

// ObserveGeneration records one per-item call. Nil receivers are ignored.
func (m *Metrics) ObserveGeneration(contentType string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.GeneratedItems.WithLabelValues(contentType, status).Inc()
	m.GenerateDuration.WithLabelValues(contentType).Observe(d.Seconds())
}

func (m *Metrics) ObserveExport(rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.CSVExports.WithLabelValues(StatusError).Inc()
		return
	}
	m.CSVExports.WithLabelValues(StatusOK).Inc()
	m.CSVRows.Add(float64(rows))
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
