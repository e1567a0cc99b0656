package datasync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
)

const (
	namespace = "systemair"
	subsystem = "datasync"
)

// Metrics métricas de sincronización e importación, en un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	syncTotal       *prometheus.CounterVec
	syncDuration    prometheus.Histogram
	lastSuccess     prometheus.Gauge
	importedRecords *prometheus.CounterVec
}

// NewMetrics crea y registra las métricas.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		syncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sync_total",
				Help:      "Total number of sync runs by result",
			},
			[]string{"result"},
		),
		syncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sync_duration_seconds",
				Help:      "Duration of sync runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful sync",
			},
		),
		importedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "imported_records_total",
				Help:      "Total number of imported records by collection and outcome",
			},
			[]string{"collection", "outcome"},
		),
	}
	m.registry.MustRegister(m.syncTotal, m.syncDuration, m.lastSuccess, m.importedRecords)
	return m
}

// Registry registro para exponer en /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeSync(ok bool, started, finished time.Time) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.syncTotal.WithLabelValues(result).Inc()
	m.syncDuration.Observe(finished.Sub(started).Seconds())
	if ok {
		m.lastSuccess.Set(float64(finished.Unix()))
	}
}

func (m *Metrics) observeImport(collection string, r dto.CollectionReport) {
	if m == nil {
		return
	}
	m.importedRecords.WithLabelValues(collection, "inserted").Add(float64(r.Inserted))
	m.importedRecords.WithLabelValues(collection, "updated").Add(float64(r.Updated))
	m.importedRecords.WithLabelValues(collection, "failed").Add(float64(r.Failed))
}
